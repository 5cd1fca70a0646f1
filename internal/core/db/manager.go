package db

import (
	"context"
)

// Manager is a thin facade over a Context's RunInTransaction. Services
// depend on "a thing that can run a transaction" rather than on a concrete
// context type. It holds no state beyond the context itself.
type Manager struct {
	dbCtx Context
}

// NewManager creates a Manager over the given context.
func NewManager(dbCtx Context) *Manager {
	return &Manager{dbCtx: dbCtx}
}

// Transaction executes fn within a transaction on the held context.
func (m *Manager) Transaction(ctx context.Context, fn func(dbCtx Context) error) error {
	return m.dbCtx.RunInTransaction(ctx, fn)
}

// Context returns the held context for plain reads that do not need a
// transaction boundary.
func (m *Manager) Context() Context {
	return m.dbCtx
}
