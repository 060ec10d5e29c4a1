package core

// errors.go defines the error taxonomy for seeding runs.
//
// ConnectionError and SchemaError are fatal: they abort the run and are
// surfaced to the caller. ValidationError and DuplicateError are per-row:
// the affected row is skipped, counted, and the run continues.

import (
	"fmt"

	"github.com/google/uuid"
)

// ConnectionError indicates the store is unreachable.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SchemaError indicates database or table creation failed for a reason
// other than pre-existence.
type SchemaError struct {
	Object string // database or table name
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("creating %s: %v", e.Object, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ValidationError describes why a single row was rejected.
type ValidationError struct {
	Field   string // field/column name
	Value   string // the offending value
	Message string // human-readable reason
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// DuplicateError indicates a row whose UserID is already persisted.
type DuplicateError struct {
	UserID uuid.UUID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("user %s already exists", e.UserID)
}
