// Package api exposes the ingestion operations over HTTP for the
// automation layer that produces the export files.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lavpop/pos-uploader/internal/csvfile"
	"github.com/lavpop/pos-uploader/internal/models"
)

// Ingestor is the ingestion surface the handlers call (for testing)
type Ingestor interface {
	UploadSales(ctx context.Context, path, source string) models.UploadResult
	UploadCustomers(ctx context.Context, path, source string) models.UploadResult
	RefreshCustomerMetrics(ctx context.Context) models.RefreshResult
}

type Handlers struct {
	ingestor      Ingestor
	logger        *slog.Logger
	defaultSource string
}

func NewHandlers(ingestor Ingestor, logger *slog.Logger, defaultSource string) *Handlers {
	return &Handlers{
		ingestor:      ingestor,
		logger:        logger.With("component", "api"),
		defaultSource: defaultSource,
	}
}

// UploadRequest points at an export file already on local disk.
type UploadRequest struct {
	Filepath string `json:"filepath"`
	Source   string `json:"source"`
}

// UploadSales handles sales export ingestion requests
func (h *Handlers) UploadSales(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeUploadRequest(w, r)
	if !ok {
		return
	}

	result := h.ingestor.UploadSales(r.Context(), req.Filepath, req.Source)
	h.respondJSON(w, http.StatusOK, result)
}

// UploadCustomers handles customer export ingestion requests
func (h *Handlers) UploadCustomers(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeUploadRequest(w, r)
	if !ok {
		return
	}

	result := h.ingestor.UploadCustomers(r.Context(), req.Filepath, req.Source)
	h.respondJSON(w, http.StatusOK, result)
}

// RefreshMetrics triggers the backend aggregate recomputation
func (h *Handlers) RefreshMetrics(w http.ResponseWriter, r *http.Request) {
	result := h.ingestor.RefreshCustomerMetrics(r.Context())
	h.respondJSON(w, http.StatusOK, result)
}

// DetectRequest asks which kind of export a file is.
type DetectRequest struct {
	Filepath string `json:"filepath"`
}

// DetectResponse reports the sniffed file type.
type DetectResponse struct {
	FileType csvfile.FileType `json:"file_type"`
}

// DetectFileType sniffs an export file's headers
func (h *Handlers) DetectFileType(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filepath == "" {
		h.respondError(w, http.StatusBadRequest, "filepath is required")
		return
	}

	h.respondJSON(w, http.StatusOK, DetectResponse{FileType: csvfile.DetectFileType(req.Filepath)})
}

func (h *Handlers) decodeUploadRequest(w http.ResponseWriter, r *http.Request) (UploadRequest, bool) {
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Filepath == "" {
		h.respondError(w, http.StatusBadRequest, "filepath is required")
		return req, false
	}
	if req.Source == "" {
		req.Source = h.defaultSource
	}
	return req, true
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
