package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"usersvc/internal/core/db"
	"usersvc/pkg/logger"
)

var tracer = otel.Tracer("usersvc/postgres")

// Backend is the capability tag for PostgreSQL contexts.
const Backend = "postgres"

// Querier is the query surface shared by pgxpool.Pool and pgx.Tx.
// Repositories obtain it via Unwrap and stay agnostic of whether they run
// inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time check that Context implements db.Context.
var _ db.Context = (*Context)(nil)

// Context is the PostgreSQL implementation of db.Context. It wraps either
// the connection pool or an open transaction. Transaction-scoped contexts
// are created by RunInTransaction and live only for the callback.
type Context struct {
	pool *Pool  // set on pool-backed contexts
	tx   pgx.Tx // set on transaction-scoped contexts
}

// NewContext creates a pool-backed context.
func NewContext(pool *Pool) *Context {
	return &Context{pool: pool}
}

// Backend implements db.Context.
func (c *Context) Backend() string {
	return Backend
}

// Querier returns the transaction if this context is transaction-scoped,
// otherwise the pool.
func (c *Context) Querier() Querier {
	if c.tx != nil {
		return c.tx
	}
	return c.pool.Pool
}

// InTransaction reports whether this context wraps an open transaction.
func (c *Context) InTransaction() bool {
	return c.tx != nil
}

// RunInTransaction implements db.Context.
//
// On a pool-backed context it begins a transaction, runs fn with a
// transaction-scoped child context, commits on success and rolls back on
// error. A transaction-scoped context joins the open transaction and runs
// fn directly (flatten policy).
func (c *Context) RunInTransaction(ctx context.Context, fn func(dbCtx db.Context) error) error {
	if c.tx != nil {
		return fn(c)
	}

	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
		))
	defer span.End()

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := &Context{tx: tx}
	if err := fn(txCtx); err != nil {
		// Rollback on a background context so a cancelled request still
		// rolls back. Rollback failures are logged, never mask the
		// original error.
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && rbErr != pgx.ErrTxClosed {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Unwrap extracts the querier from a db.Context, ensuring the repository
// is paired with a PostgreSQL context. A mismatch is a wiring bug, not a
// runtime condition.
func Unwrap(dbCtx db.Context) (Querier, error) {
	pgCtx, ok := dbCtx.(*Context)
	if !ok {
		return nil, fmt.Errorf("expected %q database context, got %q", Backend, dbCtx.Backend())
	}
	return pgCtx.Querier(), nil
}
