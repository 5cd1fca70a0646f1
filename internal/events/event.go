// Package events provides domain event records and the publish/consume ports.
package events

import (
	"time"

	"usersvc/internal/core/id"
)

// Event is an immutable domain event record. It is created once per
// committed mutation and never mutated afterwards.
type Event struct {
	ID            string         `json:"id" db:"id"`
	Type          string         `json:"type" db:"type"`
	AggregateType string         `json:"aggregate_type" db:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id" db:"aggregate_id"`
	Timestamp     time.Time      `json:"timestamp" db:"timestamp"`
	Payload       map[string]any `json:"payload" db:"payload"`
}

// New builds an event with a fresh UUIDv7 id and the current time.
func New(eventType, aggregateType, aggregateID string, payload map[string]any) Event {
	return Event{
		ID:            id.New().String(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}
}
