// Package user_repo provides the PostgreSQL implementation of the user
// repository. Transaction boundaries are owned by callers: every method
// runs against the querier of whatever context it was handed.
package user_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"usersvc/internal/core/apperror"
	"usersvc/internal/core/db"
	"usersvc/internal/core/id"
	"usersvc/internal/domain/user"
	"usersvc/internal/infrastructure/storage/postgres"
)

const (
	usersTable            = "users"
	emailUniqueConstraint = "users_email_key"
)

var userColumns = []string{"id", "email", "name", "age", "created_at", "updated_at"}

// Compile-time check that Repo implements user.Repository.
var _ user.Repository = (*Repo)(nil)

// Repo implements user.Repository.
type Repo struct{}

// New creates a new user repository.
func New() *Repo {
	return &Repo{}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *Repo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *Repo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(userColumns...).
		From(usersTable)
}

// Create inserts a new user, assigning id and timestamps.
func (r *Repo) Create(ctx context.Context, dbCtx db.Context, in user.CreateUser) (*user.User, error) {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:        id.New(),
		Email:     in.Email,
		Name:      in.Name,
		Age:       in.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := r.Builder().
		Insert(usersTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.Age, u.CreatedAt, u.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		// The unique constraint is the authority on email uniqueness; the
		// validator pre-check only loses a race to get here.
		if postgres.IsUniqueViolation(err, emailUniqueConstraint) {
			return nil, apperror.NewDuplicate("user", "email", in.Email).WithCause(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}

// GetByID retrieves a user by id. Returns (nil, nil) when absent.
func (r *Repo) GetByID(ctx context.Context, dbCtx db.Context, userID id.ID) (*user.User, error) {
	return r.getOne(ctx, dbCtx, squirrel.Eq{"id": userID})
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *Repo) GetByEmail(ctx context.Context, dbCtx db.Context, email string) (*user.User, error) {
	return r.getOne(ctx, dbCtx, squirrel.Eq{"email": email})
}

func (r *Repo) getOne(ctx context.Context, dbCtx db.Context, where squirrel.Eq) (*user.User, error) {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return nil, err
	}

	q := r.baseSelect().Where(where).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u user.User
	if err := pgxscan.Get(ctx, querier, &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

// Update replaces all mutable fields of an existing user.
func (r *Repo) Update(ctx context.Context, dbCtx db.Context, u *user.User) (*user.User, error) {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.fullUpdate(u, time.Now().UTC()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var updated user.User
	if err := pgxscan.Get(ctx, querier, &updated, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", u.ID.String())
		}
		if postgres.IsUniqueViolation(err, emailUniqueConstraint) {
			return nil, apperror.NewDuplicate("user", "email", u.Email).WithCause(err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return &updated, nil
}

// fullUpdate builds the UPDATE statement replacing every mutable column.
func (r *Repo) fullUpdate(u *user.User, now time.Time) squirrel.UpdateBuilder {
	return r.Builder().
		Update(usersTable).
		Set("email", u.Email).
		Set("name", u.Name).
		Set("age", u.Age).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": u.ID}).
		Suffix("RETURNING " + returningColumns())
}

// UpdatePartial applies only the provided patch fields. Unset fields keep
// their column untouched; an explicit null writes SQL NULL.
func (r *Repo) UpdatePartial(ctx context.Context, dbCtx db.Context, userID id.ID, patch user.Patch) (*user.User, error) {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return nil, err
	}

	q := r.patchUpdate(userID, patch)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build partial update: %w", err)
	}

	var updated user.User
	if err := pgxscan.Get(ctx, querier, &updated, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		if postgres.IsUniqueViolation(err, emailUniqueConstraint) {
			email, _ := patch.Email.Get()
			return nil, apperror.NewDuplicate("user", "email", email).WithCause(err)
		}
		return nil, fmt.Errorf("partial update user: %w", err)
	}

	return &updated, nil
}

// patchUpdate builds the UPDATE statement for a patch. Column order is
// fixed (email, name, age) so generated SQL is deterministic.
func (r *Repo) patchUpdate(userID id.ID, patch user.Patch) squirrel.UpdateBuilder {
	q := r.Builder().Update(usersTable)

	if patch.Email.IsSet() {
		q = q.Set("email", optionalArg(patch.Email.Get()))
	}
	if patch.Name.IsSet() {
		q = q.Set("name", optionalArg(patch.Name.Get()))
	}
	if patch.Age.IsSet() {
		q = q.Set("age", optionalArg(patch.Age.Get()))
	}

	return q.
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		Suffix("RETURNING " + returningColumns())
}

// optionalArg maps a decoded Optional state to a SQL argument: the value
// when present, NULL when explicitly cleared.
func optionalArg[T any](value T, ok bool) any {
	if !ok {
		return nil
	}
	return value
}

// Delete removes a user. Not-found error when the id does not resolve.
func (r *Repo) Delete(ctx context.Context, dbCtx db.Context, userID id.ID) error {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return err
	}

	q := r.Builder().
		Delete(usersTable).
		Where(squirrel.Eq{"id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

// List retrieves users ordered by (created_at, id) for stable pagination.
func (r *Repo) List(ctx context.Context, dbCtx db.Context, limit, offset int) ([]*user.User, error) {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return nil, err
	}

	q := r.baseSelect().
		OrderBy("created_at", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	var users []*user.User
	if err := pgxscan.Select(ctx, querier, &users, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Count returns the total number of users.
func (r *Repo) Count(ctx context.Context, dbCtx db.Context) (int64, error) {
	querier, err := postgres.Unwrap(dbCtx)
	if err != nil {
		return 0, err
	}

	q := r.Builder().
		Select("COUNT(*)").
		From(usersTable)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var total int64
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return total, nil
}

func returningColumns() string {
	return strings.Join(userColumns, ", ")
}
