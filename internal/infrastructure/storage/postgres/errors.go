package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes (class 23 — integrity constraint violation).
const (
	codeUniqueViolation = "23505"
)

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally on the named constraint. The constraint check matters when a
// table carries more than one unique index.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
