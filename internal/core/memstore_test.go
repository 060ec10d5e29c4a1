package core

// In-memory Store fake for exercising the pipeline without Postgres.
// Insertion order is preserved, mirroring the table's storage order.

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type memStore struct {
	records    []UserRecord
	index      map[uuid.UUID]int
	tableReady bool

	// failWith, when set, is returned by every store operation.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{index: make(map[uuid.UUID]int)}
}

func (m *memStore) CreateTable(ctx context.Context) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.tableReady = true
	return nil
}

func (m *memStore) InsertUser(ctx context.Context, rec UserRecord) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	if _, ok := m.index[rec.UserID]; ok {
		return false, nil
	}
	m.index[rec.UserID] = len(m.records)
	m.records = append(m.records, rec)
	return true, nil
}

func (m *memStore) StreamUsers(ctx context.Context) (RowIter, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	// Snapshot so the iterator is stable even if the store changes mid-walk.
	snap := make([]UserRecord, len(m.records))
	copy(snap, m.records)
	return &memIter{records: snap}, nil
}

func (m *memStore) UsersPage(ctx context.Context, limit, offset int) ([]UserRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if offset >= len(m.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.records) {
		end = len(m.records)
	}
	page := make([]UserRecord, end-offset)
	copy(page, m.records[offset:end])
	return page, nil
}

func (m *memStore) CountUsers(ctx context.Context) (int64, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	return int64(len(m.records)), nil
}

type memIter struct {
	records []UserRecord
	pos     int
	cur     UserRecord
}

func (it *memIter) Next() bool {
	if it.pos >= len(it.records) {
		return false
	}
	it.cur = it.records[it.pos]
	it.pos++
	return true
}

func (it *memIter) Record() UserRecord { return it.cur }
func (it *memIter) Err() error         { return nil }
func (it *memIter) Close()             {}

// sliceSource is a RowSource over literal rows, with an optional error
// injected after the listed rows are consumed.
type sliceSource struct {
	rows []map[string]string
	err  error
	pos  int
}

func (s *sliceSource) Next() (map[string]string, error) {
	if s.pos >= len(s.rows) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
