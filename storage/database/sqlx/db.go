// Package sqlxrepos implements the core repositories over PostgreSQL with sqlx.
package sqlxrepos

import "github.com/lib/pq"

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation pq.ErrorCode = "23503"
	pgUniqueViolation     pq.ErrorCode = "23505"
)
