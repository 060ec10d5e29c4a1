// Package core provides the business logic for seeding and streaming user
// data. This package has no database driver dependencies and can be
// exercised entirely in memory for testing.
package core

import (
	"context"

	"github.com/google/uuid"
)

// UserRecord is one row of the user_data table.
//
// UserID is assigned during import when the source row carries no usable
// identifier and is stable from then on. Validation tags are enforced by
// go-playground/validator before any insert is attempted.
type UserRecord struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Name   string    `json:"name"    validate:"required"`
	Email  string    `json:"email"   validate:"required"`
	Age    int       `json:"age"     validate:"gte=0"`
}

// RowSource yields raw field mappings, one per input row.
// Next returns io.EOF when the source is exhausted.
type RowSource interface {
	Next() (map[string]string, error)
}

// RowIter is a lazy iterator over persisted records. It produces one
// record at a time, bounding memory regardless of table size.
//
// Usage follows the pgx.Rows shape:
//
//	rows, err := svc.StreamRows(ctx)
//	if err != nil { ... }
//	defer rows.Close()
//	for rows.Next() {
//	    rec := rows.Record()
//	    ...
//	}
//	if err := rows.Err(); err != nil { ... }
type RowIter interface {
	// Next advances to the next record, returning false when the iterator
	// is exhausted or has failed. Check Err after Next returns false.
	Next() bool

	// Record returns the current record. Only valid after Next returned true.
	Record() UserRecord

	// Err returns the first error encountered while iterating, if any.
	Err() error

	// Close releases the underlying resources. Safe to call more than once.
	Close()
}

// Store is the persistence boundary for user records.
// Satisfied by database.Store (Postgres) and by in-memory fakes in tests.
type Store interface {
	// CreateTable idempotently creates the user_data table.
	CreateTable(ctx context.Context) error

	// InsertUser inserts a record, returning false when a record with the
	// same UserID already exists (nothing inserted, no error).
	InsertUser(ctx context.Context, rec UserRecord) (bool, error)

	// StreamUsers returns a fresh lazy iterator over all persisted records.
	// Each call issues a new query, making iteration restartable.
	StreamUsers(ctx context.Context) (RowIter, error)

	// UsersPage returns one page of records in stable order.
	UsersPage(ctx context.Context, limit, offset int) ([]UserRecord, error)

	// CountUsers returns the number of persisted records.
	CountUsers(ctx context.Context) (int64, error)
}

// ImportStats reports the outcome of one import run.
type ImportStats struct {
	// Inserted is the number of new rows persisted.
	Inserted int

	// Skipped is the number of rows whose UserID already existed.
	Skipped int

	// Rejected is the number of rows that failed validation.
	Rejected int
}

// Total returns the number of source rows accounted for.
func (s ImportStats) Total() int {
	return s.Inserted + s.Skipped + s.Rejected
}
