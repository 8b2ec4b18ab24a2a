// Package settings provides a read-through TTL cache over the backend's
// cashback configuration row.
package settings

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lavpop/pos-uploader/internal/models"
)

// DefaultTTL bounds how long a fetched settings row is reused.
const DefaultTTL = 5 * time.Minute

// Reader fetches the settings row from the backend.
type Reader interface {
	GetAppSettings(ctx context.Context) (models.AppSettings, error)
}

// Cache is a single-slot read-through cache. A failed fetch returns the
// hardcoded defaults without touching the timestamp, so the next call
// retries immediately instead of caching the failure.
type Cache struct {
	reader Reader
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	cached    models.AppSettings
	fetchedAt time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects a clock, used by tests to step through TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(reader Reader, logger *slog.Logger, opts ...Option) *Cache {
	c := &Cache{
		reader: reader,
		logger: logger.With("component", "settings"),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached settings when fresh, otherwise attempts one backend
// read. Never fails: any error degrades to the defaults.
func (c *Cache) Get(ctx context.Context) models.AppSettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.cached
	}

	s, err := c.reader.GetAppSettings(ctx)
	if err != nil {
		c.logger.Warn("failed to load app settings, using defaults", "error", err)
		return models.DefaultAppSettings()
	}

	c.cached = s
	c.fetchedAt = c.now()
	c.logger.Info("app settings loaded",
		"cashback_percent", s.CashbackPercent,
		"cashback_start_date", s.CashbackStartDate)
	return s
}
