// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"usersvc/internal/domain/user"
)

// --- Pagination ---

// ListUsersQuery contains pagination parameters.
type ListUsersQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// Defaults sets default pagination values.
func (q *ListUsersQuery) Defaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 20
	}
}

// LimitOffset converts page/pageSize into SQL limit and offset.
func (q *ListUsersQuery) LimitOffset() (int, int) {
	return q.PageSize, (q.Page - 1) * q.PageSize
}

// --- Requests ---

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=255"`
	Age   *int   `json:"age" binding:"omitempty,gte=0"`
}

// ToCreateUser maps the request to the domain input.
func (r CreateUserRequest) ToCreateUser() user.CreateUser {
	return user.CreateUser{
		Email: r.Email,
		Name:  r.Name,
		Age:   r.Age,
	}
}

// PatchUserRequest is the PATCH /users/:id body. It is exactly a
// user.Patch: each field independently absent, null, or valued, and the
// distinction must survive decoding. Field-level validation happens in the
// domain validators.
type PatchUserRequest = user.Patch

// --- Responses ---

// UserResponse is the representation of a user on the wire.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       *int      `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUser maps the domain entity to its response.
func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ListUsersResponse is the paginated list envelope.
type ListUsersResponse struct {
	Items      []UserResponse `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// NewListUsersResponse builds the envelope, computing totalPages.
func NewListUsersResponse(users []*user.User, page, pageSize int, total int64) ListUsersResponse {
	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, FromUser(u))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return ListUsersResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
