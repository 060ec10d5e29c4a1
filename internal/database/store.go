package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"userseed/internal/core"
)

// DBTX is the subset of pgx operations the store needs.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS user_data (
    user_id UUID PRIMARY KEY,
    name    TEXT NOT NULL,
    email   TEXT NOT NULL,
    age     INT  NOT NULL CHECK (age >= 0)
)`

const insertUserSQL = `
INSERT INTO user_data (user_id, name, email, age)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO NOTHING`

// Store implements core.Store on Postgres.
type Store struct {
	db DBTX
}

// NewStore wraps a pool or transaction in a Store.
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

var _ core.Store = (*Store)(nil)

// CreateTable creates the user_data table if it does not already exist.
func (s *Store) CreateTable(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		if isSQLState(err, pgErrDuplicateTable) {
			return nil
		}
		if isConnectionFailure(err) {
			return &core.ConnectionError{Err: err}
		}
		return &core.SchemaError{Object: "table user_data", Err: err}
	}
	return nil
}

// InsertUser inserts one record. Returns false when a record with the same
// user_id already exists; the existing row is left untouched.
func (s *Store) InsertUser(ctx context.Context, rec core.UserRecord) (bool, error) {
	tag, err := s.db.Exec(ctx, insertUserSQL, rec.UserID, rec.Name, rec.Email, rec.Age)
	if err != nil {
		if isDuplicateKey(err) {
			return false, &core.DuplicateError{UserID: rec.UserID}
		}
		if isConnectionFailure(err) {
			return false, &core.ConnectionError{Err: err}
		}
		return false, fmt.Errorf("inserting user %s: %w", rec.UserID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// StreamUsers issues one query and returns a lazy iterator over its rows.
// Rows arrive in storage order; no ordering is imposed beyond that.
func (s *Store) StreamUsers(ctx context.Context) (core.RowIter, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id, name, email, age FROM user_data`)
	if err != nil {
		if isConnectionFailure(err) {
			return nil, &core.ConnectionError{Err: err}
		}
		return nil, fmt.Errorf("querying user_data: %w", err)
	}
	return &rowStream{rows: rows}, nil
}

// UsersPage returns one page of records ordered by user_id, which keeps
// LIMIT/OFFSET pagination stable across pages.
func (s *Store) UsersPage(ctx context.Context, limit, offset int) ([]core.UserRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, name, email, age FROM user_data ORDER BY user_id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		if isConnectionFailure(err) {
			return nil, &core.ConnectionError{Err: err}
		}
		return nil, fmt.Errorf("querying user_data page: %w", err)
	}
	defer rows.Close()

	page := make([]core.UserRecord, 0, limit)
	for rows.Next() {
		var rec core.UserRecord
		if err := rows.Scan(&rec.UserID, &rec.Name, &rec.Email, &rec.Age); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		page = append(page, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading user_data page: %w", err)
	}
	return page, nil
}

// CountUsers returns the number of rows in user_data.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_data`).Scan(&n); err != nil {
		if isConnectionFailure(err) {
			return 0, &core.ConnectionError{Err: err}
		}
		return 0, fmt.Errorf("counting user_data: %w", err)
	}
	return n, nil
}

// rowStream adapts pgx.Rows to core.RowIter, scanning one record per step.
type rowStream struct {
	rows pgx.Rows
	cur  core.UserRecord
	err  error
}

func (r *rowStream) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		r.err = r.rows.Err()
		return false
	}
	var rec core.UserRecord
	if err := r.rows.Scan(&rec.UserID, &rec.Name, &rec.Email, &rec.Age); err != nil {
		r.err = err
		r.rows.Close()
		return false
	}
	r.cur = rec
	return true
}

func (r *rowStream) Record() core.UserRecord { return r.cur }

func (r *rowStream) Err() error { return r.err }

func (r *rowStream) Close() { r.rows.Close() }
