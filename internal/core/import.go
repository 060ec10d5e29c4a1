package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ImportFromSource consumes a RowSource and persists every valid, new row.
//
// Per-row failures never abort the batch: rows missing required fields or
// carrying a malformed age are rejected and logged, rows whose UserID is
// already persisted are skipped, and the run continues. Only source
// failures, context cancellation, and connection-level store failures
// abort the run; the returned stats cover the rows processed up to that
// point.
func (s *Service) ImportFromSource(ctx context.Context, src RowSource) (ImportStats, error) {
	var stats ImportStats

	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("import cancelled at row %d: %w", row, err)
		}

		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading row %d: %w", row, err)
		}
		line := sourceLine(src, row)

		rec, err := s.buildRecord(fields)
		if err != nil {
			stats.Rejected++
			s.log.Warn("row rejected", "line", line, "error", err)
			continue
		}

		inserted, err := s.store.InsertUser(ctx, rec)
		if err != nil {
			var dup *DuplicateError
			if errors.As(err, &dup) {
				// Lost a race with a concurrent writer; same outcome as the
				// ON CONFLICT path below.
				stats.Skipped++
				continue
			}
			var conn *ConnectionError
			if errors.As(err, &conn) {
				return stats, err
			}
			stats.Rejected++
			s.log.Warn("row rejected by store", "line", line, "user_id", rec.UserID, "error", err)
			continue
		}
		if !inserted {
			stats.Skipped++
			s.log.Debug("duplicate skipped", "line", line, "user_id", rec.UserID)
			continue
		}
		stats.Inserted++
	}

	s.log.Info("import finished",
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"rejected", stats.Rejected,
	)
	return stats, nil
}

// sourceLine reports the physical input line of the row just read. Sources
// that track their position (a CSV file reader) are asked directly; for the
// rest the data-row ordinal is offset by the one header line.
func sourceLine(src RowSource, row int) int {
	if lr, ok := src.(interface{ Line() int }); ok {
		return lr.Line()
	}
	return row + 1
}

// buildRecord turns one raw field mapping into a validated UserRecord.
// A missing or malformed user_id gets a freshly generated UUID; every
// other defect is a ValidationError.
func (s *Service) buildRecord(fields map[string]string) (UserRecord, error) {
	uid, err := uuid.Parse(strings.TrimSpace(fields["user_id"]))
	if err != nil {
		uid = uuid.New()
	}

	rawAge := strings.TrimSpace(fields["age"])
	if rawAge == "" {
		return UserRecord{}, &ValidationError{Field: "age", Value: rawAge, Message: "missing required field"}
	}
	// Source data may carry a decimal suffix ("67.0"); parse as float and
	// truncate, the way the table's DECIMAL(3,0) column would.
	ageF, err := strconv.ParseFloat(rawAge, 64)
	if err != nil {
		return UserRecord{}, &ValidationError{Field: "age", Value: rawAge, Message: "not a number"}
	}

	rec := UserRecord{
		UserID: uid,
		Name:   strings.TrimSpace(fields["name"]),
		Email:  strings.TrimSpace(fields["email"]),
		Age:    int(ageF),
	}
	if err := s.validate.Struct(rec); err != nil {
		return rec, asValidationError(err)
	}
	return rec, nil
}

// asValidationError converts a validator error into the first offending
// field's ValidationError.
func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	msg := "invalid value"
	switch fe.Tag() {
	case "required":
		msg = "missing required field"
	case "gte":
		msg = "must be >= " + fe.Param()
	}
	return &ValidationError{
		Field:   strings.ToLower(fe.Field()),
		Value:   fmt.Sprint(fe.Value()),
		Message: msg,
	}
}
