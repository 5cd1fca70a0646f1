// Package user provides the User entity and its business logic.
package user

import (
	"time"

	"usersvc/internal/core/id"
	"usersvc/internal/core/types"
)

// User represents a registered user.
type User struct {
	// ID is assigned by the persistence layer on create.
	ID id.ID `db:"id" json:"id"`

	// Email is unique across all users. Validators pre-check uniqueness;
	// the database constraint is the final authority.
	Email string `db:"email" json:"email"`

	// Name is a non-empty display name.
	Name string `db:"name" json:"name"`

	// Age is optional; nil means not provided.
	Age *int `db:"age" json:"age"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// CreateUser holds the fields for constructing a new User.
// ID and timestamps are assigned by the persistence layer.
type CreateUser struct {
	Email string
	Name  string
	Age   *int
}

// Patch is a partial update. Each field is independently unset (leave
// unchanged), null (clear, for nullable fields), or a value (overwrite).
type Patch struct {
	Email types.Optional[string] `json:"email"`
	Name  types.Optional[string] `json:"name"`
	Age   types.Optional[int]    `json:"age"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p Patch) IsEmpty() bool {
	return !p.Email.IsSet() && !p.Name.IsSet() && !p.Age.IsSet()
}
