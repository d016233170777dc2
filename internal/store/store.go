// Package store persists users and prompts in PostgreSQL. Stores run on
// any sqlx.ExtContext, so the same code serves both the pool and a
// per-request transaction.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint hit.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Flows use it to translate the constraint firing under a concurrent
// duplicate insert into the same conflict outcome as the pre-check.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
