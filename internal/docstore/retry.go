package docstore

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Codes SQLSTATE Postgres qui justifient de rejouer une transaction
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// IsRetryable indique si err vient d'un conflit de sérialisation que le store sait rejouer
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
	}
	return false
}
