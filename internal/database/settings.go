package database

import (
	"context"
	"fmt"

	"github.com/lavpop/pos-uploader/internal/models"
)

// GetAppSettings reads the cashback configuration row. A missing row is an
// error; the settings cache translates any failure into defaults.
func (db *DB) GetAppSettings(ctx context.Context) (models.AppSettings, error) {
	var s models.AppSettings

	query := `
		SELECT cashback_percent, to_char(cashback_start_date, 'YYYY-MM-DD')
		FROM app_settings
		WHERE id = 'default'`

	err := db.pool.QueryRow(ctx, query).Scan(&s.CashbackPercent, &s.CashbackStartDate)
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("failed to read app settings: %w", err)
	}

	return s, nil
}
