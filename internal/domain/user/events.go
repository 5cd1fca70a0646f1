package user

import (
	"usersvc/internal/events"
)

// Event types emitted by the user service.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// AggregateType identifies user events on the bus.
const AggregateType = "user"

// NewCreatedEvent builds the immutable event for a created user.
func NewCreatedEvent(u *User) events.Event {
	return events.New(EventUserCreated, AggregateType, u.ID.String(), eventPayload(u))
}

// NewUpdatedEvent builds the immutable event for an updated user.
func NewUpdatedEvent(u *User) events.Event {
	return events.New(EventUserUpdated, AggregateType, u.ID.String(), eventPayload(u))
}

// NewDeletedEvent builds the immutable event for a deleted user,
// carrying the entity state as it was before removal.
func NewDeletedEvent(u *User) events.Event {
	return events.New(EventUserDeleted, AggregateType, u.ID.String(), eventPayload(u))
}

func eventPayload(u *User) map[string]any {
	payload := map[string]any{
		"user_id": u.ID.String(),
		"email":   u.Email,
		"name":    u.Name,
	}
	if u.Age != nil {
		payload["age"] = *u.Age
	}
	return payload
}
