package user

import (
	"context"

	"usersvc/internal/core/db"
	"usersvc/internal/core/id"
)

// Repository defines the interface for User persistence.
//
// Every operation takes the database context it must execute against and
// runs within whatever transaction (if any) that context represents. A
// repository never opens its own transaction — the service owns the
// transaction boundary.
type Repository interface {
	// Create inserts a new user. ID and timestamps are assigned here.
	// A unique-constraint violation on email surfaces as a duplicate error.
	Create(ctx context.Context, dbCtx db.Context, in CreateUser) (*User, error)

	// GetByID retrieves a user by id. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, dbCtx db.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, dbCtx db.Context, email string) (*User, error)

	// Update replaces all mutable fields. Not-found error on a missing id.
	Update(ctx context.Context, dbCtx db.Context, u *User) (*User, error)

	// UpdatePartial applies only the provided patch fields, preserving the
	// unset/null/value distinction. Not-found error on a missing id.
	UpdatePartial(ctx context.Context, dbCtx db.Context, userID id.ID, patch Patch) (*User, error)

	// Delete removes a user. Not-found error on a missing id.
	Delete(ctx context.Context, dbCtx db.Context, userID id.ID) error

	// List returns users ordered by (created_at, id) so pagination is
	// stable. An offset past the end yields an empty slice.
	List(ctx context.Context, dbCtx db.Context, limit, offset int) ([]*User, error)

	// Count returns the total number of users.
	Count(ctx context.Context, dbCtx db.Context) (int64, error)
}
