package settings

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lavpop/pos-uploader/internal/models"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) GetAppSettings(ctx context.Context) (models.AppSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AppSettings), args.Error(1)
}

func TestCacheGet(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	backend := models.AppSettings{CashbackPercent: 10, CashbackStartDate: "2024-01-01"}

	t.Run("fresh cache avoids backend reads", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("GetAppSettings", ctx).Return(backend, nil).Once()

		now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		cache := New(reader, logger, WithClock(func() time.Time { return now }))

		assert.Equal(t, backend, cache.Get(ctx))

		// Within the TTL only the first call hits the backend.
		now = now.Add(4 * time.Minute)
		assert.Equal(t, backend, cache.Get(ctx))
		reader.AssertExpectations(t)
	})

	t.Run("expired cache refetches", func(t *testing.T) {
		reader := new(MockReader)
		updated := models.AppSettings{CashbackPercent: 5, CashbackStartDate: "2024-08-01"}
		reader.On("GetAppSettings", ctx).Return(backend, nil).Once()
		reader.On("GetAppSettings", ctx).Return(updated, nil).Once()

		now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		cache := New(reader, logger, WithClock(func() time.Time { return now }))

		assert.Equal(t, backend, cache.Get(ctx))

		now = now.Add(6 * time.Minute)
		assert.Equal(t, updated, cache.Get(ctx))
		reader.AssertExpectations(t)
	})

	t.Run("backend failure returns defaults and retries next call", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("GetAppSettings", ctx).Return(models.AppSettings{}, errors.New("network down")).Once()
		reader.On("GetAppSettings", ctx).Return(backend, nil).Once()

		now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		cache := New(reader, logger, WithClock(func() time.Time { return now }))

		got := cache.Get(ctx)
		assert.Equal(t, models.DefaultAppSettings(), got)

		// The failure was not cached: the very next call goes to the
		// backend again even though no time has passed.
		assert.Equal(t, backend, cache.Get(ctx))
		reader.AssertExpectations(t)
	})

	t.Run("custom TTL", func(t *testing.T) {
		reader := new(MockReader)
		reader.On("GetAppSettings", ctx).Return(backend, nil).Twice()

		now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
		cache := New(reader, logger,
			WithTTL(time.Second),
			WithClock(func() time.Time { return now }))

		cache.Get(ctx)
		now = now.Add(2 * time.Second)
		cache.Get(ctx)
		reader.AssertExpectations(t)
	})
}

func TestDefaultAppSettings(t *testing.T) {
	d := models.DefaultAppSettings()
	assert.Equal(t, 7.5, d.CashbackPercent)
	assert.Equal(t, "2024-06-01", d.CashbackStartDate)
}
