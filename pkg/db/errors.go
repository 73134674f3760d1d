package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgCodeUniqueViolation  = "23505"
	pgCodeLockNotAvailable = "55P03"
)

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation. When constraintName is provided, the match is narrowed to
// that constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code, constraint := pgDiagnostics(err); code != "" {
		if code != pgCodeUniqueViolation {
			return false
		}
		if constraintName == "" {
			return true
		}
		return constraint == constraintName
	}
	// Fallback for drivers that only surface message text (sqlite in tests).
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsLockNotAvailable reports whether the error is a Postgres lock-wait
// timeout (lock_timeout expired while waiting on a contended row).
func IsLockNotAvailable(err error) bool {
	if err == nil {
		return false
	}
	code, _ := pgDiagnostics(err)
	return code == pgCodeLockNotAvailable
}

func pgDiagnostics(err error) (code, constraint string) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}
