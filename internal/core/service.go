package core

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// Service owns the seeding pipeline: ensure schema, import rows from a
// source, and stream persisted rows back out. Each operation is
// independent and may be invoked repeatedly.
type Service struct {
	store    Store
	validate *validator.Validate
	log      *slog.Logger
}

// NewService creates a Service backed by the given store.
// A nil logger falls back to slog.Default.
func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// EnsureSchema idempotently creates the user_data table. The target
// database itself is created when the connection is opened (see
// database.EnsureDatabase); both steps are no-ops when already present.
func (s *Service) EnsureSchema(ctx context.Context) error {
	if err := s.store.CreateTable(ctx); err != nil {
		return err
	}
	s.log.Info("schema ready", "table", "user_data")
	return nil
}

// CountRows returns the number of persisted records.
func (s *Service) CountRows(ctx context.Context) (int64, error) {
	return s.store.CountUsers(ctx)
}
