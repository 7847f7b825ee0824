package usage

import (
	"context"
	"time"

	"matching-backend/internal/shared/telemetry"
)

type store interface {
	Insert(ctx context.Context, call Call) error
	Summarize(ctx context.Context, since time.Time) (Summary, error)
}

// Service records AI API calls for billing visibility.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Record logs one billed call. Failures are logged and swallowed so that
// ledger trouble never blocks an analysis.
func (s *Service) Record(ctx context.Context, call Call) {
	if call.RequestedAt.IsZero() {
		call.RequestedAt = time.Now().UTC()
	}
	if err := s.store.Insert(ctx, call); err != nil {
		telemetry.Warn("usage.record_failed", map[string]any{
			"provider": call.Provider,
			"purpose":  call.Purpose,
			"error":    err.Error(),
		})
	}
}

// Summarize returns per-provider call counts since the given time.
func (s *Service) Summarize(ctx context.Context, since time.Time) (Summary, error) {
	return s.store.Summarize(ctx, since)
}
