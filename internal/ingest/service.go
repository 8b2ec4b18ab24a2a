// Package ingest orchestrates the CSV ingestion pipelines: parse, classify,
// derive monetary fields, deduplicate and batch-upsert into the backend.
package ingest

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/lavpop/pos-uploader/internal/models"
)

// DefaultBatchSize is how many records one upsert round-trip carries.
const DefaultBatchSize = 100

// Store is the backend datastore surface the pipelines depend on.
type Store interface {
	UpsertTransactions(ctx context.Context, batch []models.Transaction) error
	UpsertCustomersSmart(ctx context.Context, batch []models.Customer) (inserted, updated int, err error)
	UpsertCustomersSimple(ctx context.Context, batch []models.Customer) error
	InsertUploadHistory(ctx context.Context, entry models.UploadHistoryEntry) error
	RefreshCustomerMetrics(ctx context.Context) (int64, error)
}

// SettingsProvider yields the current cashback configuration.
type SettingsProvider interface {
	Get(ctx context.Context) models.AppSettings
}

// EventPublisher announces finished runs. Implementations must be
// best-effort; the pipelines never check for failure.
type EventPublisher interface {
	PublishUploadCompleted(ctx context.Context, entry models.UploadHistoryEntry)
}

// Service runs the ingestion pipelines. One Service is safe for sequential
// use by the automation layer; the settings cache is the only cross-call
// state.
type Service struct {
	store     Store
	settings  SettingsProvider
	publisher EventPublisher
	logger    *slog.Logger
	batchSize int
}

// Option configures a Service.
type Option func(*Service)

// WithBatchSize overrides the upsert batch size.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func NewService(store Store, settings SettingsProvider, publisher EventPublisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		settings:  settings,
		publisher: publisher,
		logger:    logger.With("component", "ingest"),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RefreshCustomerMetrics triggers the backend's aggregate recomputation.
func (s *Service) RefreshCustomerMetrics(ctx context.Context) models.RefreshResult {
	if s.store == nil {
		return models.RefreshResult{Error: "backend not configured"}
	}

	updated, err := s.store.RefreshCustomerMetrics(ctx)
	if err != nil {
		return models.RefreshResult{Error: err.Error()}
	}

	return models.RefreshResult{Success: true, Updated: updated}
}

// logHistory writes the audit record and publishes the upload event. Both
// are best-effort: a failure here must never change the run's result.
func (s *Service) logHistory(ctx context.Context, fileType, fileName string, result models.UploadResult, duration time.Duration, source string) {
	entry := models.NewUploadHistoryEntry(fileType, fileName, result, duration, source)

	if s.store != nil {
		if err := s.store.InsertUploadHistory(ctx, entry); err != nil {
			s.logger.Warn("failed to log upload history", "file_type", fileType, "error", err)
		} else {
			s.logger.Info("upload logged",
				"file_type", fileType,
				"inserted", result.Inserted,
				"skipped", result.Skipped,
				"status", entry.Status)
		}
	}

	if s.publisher != nil {
		s.publisher.PublishUploadCompleted(ctx, entry)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
