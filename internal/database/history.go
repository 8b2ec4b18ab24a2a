package database

import (
	"context"
	"fmt"

	"github.com/lavpop/pos-uploader/internal/models"
)

// InsertUploadHistory appends one audit record. The table is append-only;
// callers treat failures as non-fatal.
func (db *DB) InsertUploadHistory(ctx context.Context, entry models.UploadHistoryEntry) error {
	query := `
		INSERT INTO upload_history (
			id, file_type, file_name, records_total, records_inserted,
			records_updated, records_skipped, errors, source, duration_ms,
			status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := db.pool.Exec(ctx, query,
		entry.ID, entry.FileType, entry.FileName, entry.RecordsTotal,
		entry.RecordsInserted, entry.RecordsUpdated, entry.RecordsSkipped,
		entry.Errors, entry.Source, entry.DurationMS, entry.Status, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload history: %w", err)
	}

	return nil
}

// RefreshCustomerMetrics calls the backend's aggregate-refresh function and
// returns how many customer rows were recomputed.
func (db *DB) RefreshCustomerMetrics(ctx context.Context) (int64, error) {
	var updated int64
	err := db.pool.QueryRow(ctx, `SELECT refresh_customer_metrics()`).Scan(&updated)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh customer metrics: %w", err)
	}
	return updated, nil
}
