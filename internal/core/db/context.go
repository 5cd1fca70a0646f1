// Package db provides the database context abstraction.
// This package defines interfaces that decouple domain logic from specific
// database implementations, following the Dependency Inversion Principle.
package db

import (
	"context"
)

// Context is a capability handle to the database: either a pooled
// connection or an active transaction. It is created per logical operation,
// threaded through repositories and validators, and discarded when the
// operation completes. A Context must never be shared between concurrently
// executing operations — a transaction handle is not safe for concurrent use.
//
// The Backend tag pairs a repository implementation with a compatible
// context flavor. It must never drive business branching.
type Context interface {
	// Backend identifies the concrete implementation ("postgres", "test").
	Backend() string

	// RunInTransaction executes fn within a database transaction, passing a
	// context scoped to that transaction. If fn returns an error, the
	// transaction is rolled back and the original error is returned
	// unchanged. If fn succeeds, the transaction is committed.
	//
	// Nested calls join the already-open transaction: a context that is
	// itself transaction-scoped invokes fn directly against itself. This
	// flatten policy is fixed for all implementations — starting a second
	// transaction on the same handle would silently break atomicity.
	RunInTransaction(ctx context.Context, fn func(dbCtx Context) error) error
}
