package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func newTestService(store Store) *Service {
	return NewService(store, slog.Default())
}

func row(id, name, email, age string) map[string]string {
	return map[string]string{"user_id": id, "name": name, "email": email, "age": age}
}

func TestImportFromSource_Counts(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	src := &sliceSource{rows: []map[string]string{
		row("", "Dan", "a@b.com", "67"),
		row("00000000-0000-0000-0000-00000000000x", "", "c@d.com", "30"), // empty name
	}}

	stats, err := svc.ImportFromSource(context.Background(), src)
	if err != nil {
		t.Fatalf("ImportFromSource() error = %v", err)
	}

	if stats.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", stats.Inserted)
	}
	if stats.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", stats.Rejected)
	}
	if stats.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", stats.Skipped)
	}
	if n, _ := store.CountUsers(context.Background()); n != 1 {
		t.Errorf("stored rows = %d, want 1", n)
	}
}

func TestImportFromSource_GeneratesUserID(t *testing.T) {
	tests := []struct {
		name  string
		rawID string
	}{
		{"missing", ""},
		{"too short", "abc"},
		{"not a uuid", "not-a-valid-uuid-but-36-chars-long!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)

			src := &sliceSource{rows: []map[string]string{
				row(tt.rawID, "Dan", "a@b.com", "67"),
			}}
			stats, err := svc.ImportFromSource(context.Background(), src)
			if err != nil {
				t.Fatalf("ImportFromSource() error = %v", err)
			}
			if stats.Inserted != 1 {
				t.Fatalf("Inserted = %d, want 1", stats.Inserted)
			}
			if store.records[0].UserID == uuid.Nil {
				t.Error("persisted record has zero UserID, want generated UUID")
			}
		})
	}
}

func TestImportFromSource_KeepsProvidedUserID(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	id := uuid.New()
	src := &sliceSource{rows: []map[string]string{
		row(id.String(), "Dan", "a@b.com", "67"),
	}}
	if _, err := svc.ImportFromSource(context.Background(), src); err != nil {
		t.Fatalf("ImportFromSource() error = %v", err)
	}
	if store.records[0].UserID != id {
		t.Errorf("UserID = %s, want %s", store.records[0].UserID, id)
	}
}

func TestImportFromSource_RejectsBadAge(t *testing.T) {
	tests := []struct {
		name string
		age  string
	}{
		{"non-numeric", "sixty"},
		{"negative", "-5"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(store)

			src := &sliceSource{rows: []map[string]string{
				row("", "Dan", "a@b.com", tt.age),
			}}
			stats, err := svc.ImportFromSource(context.Background(), src)
			if err != nil {
				t.Fatalf("ImportFromSource() error = %v", err)
			}
			if stats.Rejected != 1 {
				t.Errorf("Rejected = %d, want 1", stats.Rejected)
			}
			if n, _ := store.CountUsers(context.Background()); n != 0 {
				t.Errorf("stored rows = %d, want 0", n)
			}
		})
	}
}

func TestImportFromSource_DecimalAgeTruncated(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	src := &sliceSource{rows: []map[string]string{
		row("", "Dan", "a@b.com", "67.0"),
	}}
	if _, err := svc.ImportFromSource(context.Background(), src); err != nil {
		t.Fatalf("ImportFromSource() error = %v", err)
	}
	if got := store.records[0].Age; got != 67 {
		t.Errorf("Age = %d, want 67", got)
	}
}

func TestImportFromSource_AgeZeroAccepted(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	src := &sliceSource{rows: []map[string]string{
		row("", "Newborn", "n@b.com", "0"),
	}}
	stats, err := svc.ImportFromSource(context.Background(), src)
	if err != nil {
		t.Fatalf("ImportFromSource() error = %v", err)
	}
	if stats.Inserted != 1 || stats.Rejected != 0 {
		t.Errorf("stats = %+v, want 1 inserted and 0 rejected", stats)
	}
	if got := store.records[0].Age; got != 0 {
		t.Errorf("Age = %d, want 0", got)
	}
}

func TestImportFromSource_DuplicateSkipped(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	id := uuid.New()
	src := &sliceSource{rows: []map[string]string{
		row(id.String(), "Dan", "a@b.com", "67"),
		row(id.String(), "Dan", "a@b.com", "67"),
	}}

	stats, err := svc.ImportFromSource(context.Background(), src)
	if err != nil {
		t.Fatalf("ImportFromSource() error = %v", err)
	}
	if stats.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", stats.Inserted)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
}

func TestImportFromSource_Idempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	rows := []map[string]string{
		row(uuid.NewString(), "Dan", "a@b.com", "67"),
		row(uuid.NewString(), "Eve", "e@f.com", "30"),
		row(uuid.NewString(), "Kim", "k@l.com", "41"),
	}

	first, err := svc.ImportFromSource(context.Background(), &sliceSource{rows: rows})
	if err != nil {
		t.Fatalf("first import error = %v", err)
	}
	if first.Inserted != 3 {
		t.Fatalf("first Inserted = %d, want 3", first.Inserted)
	}

	second, err := svc.ImportFromSource(context.Background(), &sliceSource{rows: rows})
	if err != nil {
		t.Fatalf("second import error = %v", err)
	}
	if second.Inserted != 0 {
		t.Errorf("second Inserted = %d, want 0", second.Inserted)
	}
	if second.Skipped != 3 {
		t.Errorf("second Skipped = %d, want 3", second.Skipped)
	}
	if n, _ := store.CountUsers(context.Background()); n != 3 {
		t.Errorf("stored rows = %d, want 3", n)
	}
}

func TestImportFromSource_DuplicateErrorFromStore(t *testing.T) {
	// A unique violation surfaced by the store (race with another writer)
	// counts as skipped, same as the conflict-do-nothing path.
	store := newMemStore()
	svc := newTestService(store)

	id := uuid.New()
	if _, err := svc.ImportFromSource(context.Background(), &sliceSource{rows: []map[string]string{
		row(id.String(), "Dan", "a@b.com", "67"),
	}}); err != nil {
		t.Fatalf("setup import error = %v", err)
	}

	store.failWith = &DuplicateError{UserID: id}
	stats, err := svc.ImportFromSource(context.Background(), &sliceSource{rows: []map[string]string{
		row(id.String(), "Dan", "a@b.com", "67"),
	}})
	if err != nil {
		t.Fatalf("ImportFromSource() error = %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
}

func TestImportFromSource_ConnectionErrorAborts(t *testing.T) {
	store := newMemStore()
	store.failWith = &ConnectionError{Err: errors.New("dial tcp: refused")}
	svc := newTestService(store)

	src := &sliceSource{rows: []map[string]string{
		row("", "Dan", "a@b.com", "67"),
		row("", "Eve", "e@f.com", "30"),
	}}
	_, err := svc.ImportFromSource(context.Background(), src)
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("error = %v, want *ConnectionError", err)
	}
}

func TestImportFromSource_SourceErrorAborts(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	src := &sliceSource{
		rows: []map[string]string{row("", "Dan", "a@b.com", "67")},
		err:  fmt.Errorf("disk gone"),
	}
	stats, err := svc.ImportFromSource(context.Background(), src)
	if err == nil {
		t.Fatal("ImportFromSource() expected error from failing source")
	}
	if stats.Inserted != 1 {
		t.Errorf("partial Inserted = %d, want 1", stats.Inserted)
	}
}

func TestImportFromSource_Cancelled(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &sliceSource{rows: []map[string]string{row("", "Dan", "a@b.com", "67")}}
	_, err := svc.ImportFromSource(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if n, _ := store.CountUsers(context.Background()); n != 0 {
		t.Errorf("stored rows = %d, want 0", n)
	}
}

func TestEnsureSchema(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	if err := svc.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if !store.tableReady {
		t.Error("EnsureSchema() did not create the table")
	}

	// Second call is a no-op, not an error
	if err := svc.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() second call error = %v", err)
	}
}

func TestEnsureSchema_PropagatesSchemaError(t *testing.T) {
	store := newMemStore()
	store.failWith = &SchemaError{Object: "table user_data", Err: errors.New("permission denied")}
	svc := newTestService(store)

	err := svc.EnsureSchema(context.Background())
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
}
