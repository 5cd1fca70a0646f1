package user

import (
	"context"

	"usersvc/internal/core/apperror"
	"usersvc/internal/core/db"
	"usersvc/internal/core/id"
	"usersvc/internal/events"
	"usersvc/pkg/logger"
)

// Service provides the User use cases. Each mutation follows the same
// shape: one transaction, validators first, then the repository mutation.
// Domain events are published after the transaction commits; a publish
// failure never fails the already-committed request, it is logged as an
// operational signal instead.
type Service struct {
	manager   *db.Manager
	repo      Repository
	publisher events.Publisher
}

// NewService creates a new User service.
func NewService(manager *db.Manager, repo Repository, publisher events.Publisher) *Service {
	return &Service{
		manager:   manager,
		repo:      repo,
		publisher: publisher,
	}
}

// CreateUser creates a user after validating name and email uniqueness.
func (s *Service) CreateUser(ctx context.Context, in CreateUser) (*User, error) {
	var created *User
	err := s.manager.Transaction(ctx, func(dbCtx db.Context) error {
		if err := ValidateCreateUserRequest(ctx, dbCtx, s.repo, in); err != nil {
			return err
		}

		u, err := s.repo.Create(ctx, dbCtx, in)
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, NewCreatedEvent(created))
	return created, nil
}

// GetUser retrieves a user by id. Not-found error when the id does not
// resolve. Runs as a plain read outside any transaction boundary.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	u, err := s.repo.GetByID(ctx, s.manager.Context(), userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return u, nil
}

// ListUsers returns a page of users plus the total count. Items and total
// are read inside one transaction so they describe the same snapshot.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int64, error) {
	if limit < 0 {
		return nil, 0, apperror.NewValidation("limit cannot be negative").
			WithDetail("field", "limit")
	}
	if offset < 0 {
		return nil, 0, apperror.NewValidation("offset cannot be negative").
			WithDetail("field", "offset")
	}

	var (
		items []*User
		total int64
	)
	err := s.manager.Transaction(ctx, func(dbCtx db.Context) error {
		var err error
		if items, err = s.repo.List(ctx, dbCtx, limit, offset); err != nil {
			return err
		}
		if total, err = s.repo.Count(ctx, dbCtx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// PatchUser applies a partial update. Unset fields stay unchanged; an
// explicit null clears a nullable field. An empty patch is a no-op that
// returns the current entity without touching it.
func (s *Service) PatchUser(ctx context.Context, userID id.ID, patch Patch) (*User, error) {
	var updated *User
	mutated := false
	err := s.manager.Transaction(ctx, func(dbCtx db.Context) error {
		current, err := ValidatePatchUserRequest(ctx, dbCtx, s.repo, userID, patch)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = current
			return nil
		}

		u, err := s.repo.UpdatePartial(ctx, dbCtx, userID, patch)
		if err != nil {
			return err
		}
		updated = u
		mutated = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if mutated {
		s.publish(ctx, NewUpdatedEvent(updated))
	}
	return updated, nil
}

// DeleteUser removes a user. Not-found error when the id does not resolve.
func (s *Service) DeleteUser(ctx context.Context, userID id.ID) error {
	var deleted *User
	err := s.manager.Transaction(ctx, func(dbCtx db.Context) error {
		current, err := ValidateDeleteUserRequest(ctx, dbCtx, s.repo, userID)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, dbCtx, userID); err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, NewDeletedEvent(deleted))
	return nil
}

// publish sends an event after a committed mutation. Failures are logged,
// never returned: the state change is already durable.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error(ctx, "event publish failed after commit",
			"event_type", event.Type,
			"aggregate_id", event.AggregateID,
			"error", err,
		)
	}
}
