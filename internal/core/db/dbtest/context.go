// Package dbtest provides a no-op database context for unit tests.
package dbtest

import (
	"context"

	"usersvc/internal/core/db"
)

// Backend is the capability tag for test contexts.
const Backend = "test"

// Context is a no-op db.Context. RunInTransaction invokes fn with the
// context itself, so services and validators can be exercised without a
// real database.
type Context struct{}

var _ db.Context = (*Context)(nil)

// New creates a test context.
func New() *Context {
	return &Context{}
}

// Backend implements db.Context.
func (c *Context) Backend() string {
	return Backend
}

// RunInTransaction implements db.Context without any transaction logic.
func (c *Context) RunInTransaction(ctx context.Context, fn func(dbCtx db.Context) error) error {
	return fn(c)
}
