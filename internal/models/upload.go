package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadResult is the sole contract between an ingestion run and its caller.
// Success is true iff zero errors were accumulated across rows and batches.
type UploadResult struct {
	Success  bool     `json:"success"`
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors"`
}

// RefreshResult reports the outcome of the aggregate-refresh RPC.
type RefreshResult struct {
	Success bool   `json:"success"`
	Updated int64  `json:"updated"`
	Error   string `json:"error,omitempty"`
}

const (
	UploadStatusSuccess = "success"
	UploadStatusPartial = "partial"

	// maxHistoryErrors caps how many error strings one history entry keeps.
	maxHistoryErrors = 10
)

// UploadHistoryEntry is the immutable audit record written after every
// ingestion run, successful or not.
type UploadHistoryEntry struct {
	ID              uuid.UUID `json:"id"`
	FileType        string    `json:"file_type"`
	FileName        string    `json:"file_name"`
	RecordsTotal    int       `json:"records_total"`
	RecordsInserted int       `json:"records_inserted"`
	RecordsUpdated  int       `json:"records_updated"`
	RecordsSkipped  int       `json:"records_skipped"`
	Errors          []string  `json:"errors"`
	Source          string    `json:"source"`
	DurationMS      int64     `json:"duration_ms"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewUploadHistoryEntry builds the audit record for one run, truncating the
// error list and deriving the overall status.
func NewUploadHistoryEntry(fileType, fileName string, result UploadResult, duration time.Duration, source string) UploadHistoryEntry {
	errs := result.Errors
	if len(errs) > maxHistoryErrors {
		errs = errs[:maxHistoryErrors]
	}

	status := UploadStatusSuccess
	if len(result.Errors) > 0 {
		status = UploadStatusPartial
	}

	return UploadHistoryEntry{
		ID:              uuid.New(),
		FileType:        fileType,
		FileName:        fileName,
		RecordsTotal:    result.Total,
		RecordsInserted: result.Inserted,
		RecordsUpdated:  result.Updated,
		RecordsSkipped:  result.Skipped,
		Errors:          errs,
		Source:          source,
		DurationMS:      duration.Milliseconds(),
		Status:          status,
		CreatedAt:       time.Now(),
	}
}
