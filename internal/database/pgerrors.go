package database

// Maps pgx errors onto the core error taxonomy. Only the SQLSTATE codes
// the seeding pipeline can actually hit are classified here.

import (
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation   = "23505"
	pgErrDuplicateDatabase = "42P04"
	pgErrDuplicateTable    = "42P07"
	pgErrCannotConnectNow  = "57P03" // e.g. server startup in progress

	// Class 08 covers connection exceptions (connection_failure,
	// sqlclient_unable_to_establish_sqlconnection, ...).
	pgErrConnectionClass = "08"
)

// pgErrorCode returns the SQLSTATE code when err wraps a *pgconn.PgError.
func pgErrorCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	return "", false
}

// isSQLState reports whether err is a Postgres error with the given code.
func isSQLState(err error, code string) bool {
	got, ok := pgErrorCode(err)
	return ok && got == code
}

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool { return isSQLState(err, pgErrUniqueViolation) }

// isConnectionFailure reports whether err means the server is unreachable
// rather than rejecting the statement.
func isConnectionFailure(err error) bool {
	if code, ok := pgErrorCode(err); ok {
		return strings.HasPrefix(code, pgErrConnectionClass) || code == pgErrCannotConnectNow
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
