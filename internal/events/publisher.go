// Package events publishes upload outcomes to a Redis stream so the
// dashboard can react to finished ingestion runs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/lavpop/pos-uploader/internal/models"
)

// UploadStream is where upload-completed events are published.
const UploadStream = "stream:pos_uploads"

// RedisClient interface for Redis operations (for testing)
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Publisher emits best-effort notifications. A nil client disables
// publishing entirely; failures are logged and swallowed so they can never
// affect an ingestion result.
type Publisher struct {
	client RedisClient
	logger *slog.Logger
}

func NewPublisher(client RedisClient, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger.With("component", "events"),
	}
}

// PublishUploadCompleted adds one entry to the upload stream describing a
// finished run.
func (p *Publisher) PublishUploadCompleted(ctx context.Context, entry models.UploadHistoryEntry) {
	if p.client == nil {
		return
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		p.logger.Warn("failed to marshal upload event", "error", err)
		return
	}

	args := &redis.XAddArgs{
		Stream: UploadStream,
		Values: map[string]interface{}{
			"data":      string(payload),
			"type":      "UPLOAD_COMPLETED",
			"file_type": entry.FileType,
			"status":    entry.Status,
			"upload_id": entry.ID.String(),
			"timestamp": fmt.Sprintf("%d", entry.CreatedAt.UnixNano()),
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		p.logger.Warn("failed to publish upload event", "error", err)
		return
	}

	p.logger.Info("upload event published",
		"upload_id", entry.ID,
		"file_type", entry.FileType,
		"status", entry.Status)
}
