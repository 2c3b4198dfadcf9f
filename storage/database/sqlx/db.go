// Package sqlxrepos implements the domain repositories on Postgres
// via sqlx.
package sqlxrepos

import (
	"github.com/lib/pq"
)

// pqUniqueViolation is the Postgres error code for unique constraint
// violations.
const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pqUniqueViolation
}
