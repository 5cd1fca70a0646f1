// Package event_repo persists consumed domain events.
package event_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"usersvc/internal/core/db"
	"usersvc/internal/events"
	"usersvc/internal/infrastructure/storage/postgres"
)

const eventsTable = "events"

// Compile-time check that Repo implements events.Store.
var _ events.Store = (*Repo)(nil)

// Repo writes event batches to the events table. It holds a pool-backed
// context: event persistence is an infrastructure concern decoupled from
// the request transactions that produced the events.
type Repo struct {
	dbCtx db.Context
}

// New creates an event store over dbCtx.
func New(dbCtx db.Context) *Repo {
	return &Repo{dbCtx: dbCtx}
}

// InsertBatch implements events.Store.
func (r *Repo) InsertBatch(ctx context.Context, batch []events.Event) error {
	if len(batch) == 0 {
		return nil
	}

	querier, err := postgres.Unwrap(r.dbCtx)
	if err != nil {
		return err
	}

	q := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Insert(eventsTable).
		Columns("id", "type", "aggregate_type", "aggregate_id", "timestamp", "payload")

	for _, ev := range batch {
		q = q.Values(ev.ID, ev.Type, ev.AggregateType, ev.AggregateID, ev.Timestamp, ev.Payload)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build event insert: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	return nil
}
