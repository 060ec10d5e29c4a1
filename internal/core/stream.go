package core

import (
	"context"
)

// StreamRows returns a lazy iterator over every persisted record, one row
// at a time. Each call issues a fresh query, so iteration is restartable
// and always reflects the table at call time.
func (s *Service) StreamRows(ctx context.Context) (RowIter, error) {
	return s.store.StreamUsers(ctx)
}

// StreamBatches returns a lazy iterator that groups the row stream into
// batches of up to size records; the final batch may be short.
func (s *Service) StreamBatches(ctx context.Context, size int) (*BatchIter, error) {
	if size <= 0 {
		size = 1
	}
	rows, err := s.store.StreamUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &BatchIter{rows: rows, size: size}, nil
}

// BatchIter yields persisted records in fixed-size batches while holding
// at most one batch in memory.
type BatchIter struct {
	rows  RowIter
	size  int
	batch []UserRecord
}

// Next fills the next batch, returning false when the stream is exhausted
// or has failed.
func (b *BatchIter) Next() bool {
	b.batch = b.batch[:0]
	for len(b.batch) < b.size && b.rows.Next() {
		b.batch = append(b.batch, b.rows.Record())
	}
	return len(b.batch) > 0
}

// Batch returns the current batch. The slice is reused between calls to
// Next; copy it if it must outlive the iteration step.
func (b *BatchIter) Batch() []UserRecord { return b.batch }

// Err returns the first error encountered by the underlying stream.
func (b *BatchIter) Err() error { return b.rows.Err() }

// Close releases the underlying stream.
func (b *BatchIter) Close() { b.rows.Close() }

// Pages returns a lazy paginator over persisted records. Each page is
// fetched from the store only when the previous one has been consumed.
func (s *Service) Pages(ctx context.Context, pageSize int) *PageIter {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &PageIter{ctx: ctx, store: s.store, size: pageSize}
}

// PageIter fetches records page by page via LIMIT/OFFSET queries.
type PageIter struct {
	ctx    context.Context
	store  Store
	size   int
	offset int
	page   []UserRecord
	err    error
	done   bool
}

// Next fetches the next page, returning false when no rows remain or a
// query failed. Check Err after Next returns false.
func (p *PageIter) Next() bool {
	if p.done {
		return false
	}
	page, err := p.store.UsersPage(p.ctx, p.size, p.offset)
	if err != nil {
		p.err = err
		p.done = true
		return false
	}
	if len(page) == 0 {
		p.done = true
		return false
	}
	p.page = page
	p.offset += len(page)
	return true
}

// Page returns the current page. Only valid after Next returned true.
func (p *PageIter) Page() []UserRecord { return p.page }

// Err returns the first error encountered while paginating, if any.
func (p *PageIter) Err() error { return p.err }

// AverageAge computes the mean age across all persisted records by
// streaming ages one at a time. Returns 0 for an empty table.
func (s *Service) AverageAge(ctx context.Context) (float64, error) {
	rows, err := s.store.StreamUsers(ctx)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var sum, count int64
	for rows.Next() {
		sum += int64(rows.Record().Age)
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}
