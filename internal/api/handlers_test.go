package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lavpop/pos-uploader/internal/models"
)

type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) UploadSales(ctx context.Context, path, source string) models.UploadResult {
	args := m.Called(ctx, path, source)
	return args.Get(0).(models.UploadResult)
}

func (m *MockIngestor) UploadCustomers(ctx context.Context, path, source string) models.UploadResult {
	args := m.Called(ctx, path, source)
	return args.Get(0).(models.UploadResult)
}

func (m *MockIngestor) RefreshCustomerMetrics(ctx context.Context) models.RefreshResult {
	args := m.Called(ctx)
	return args.Get(0).(models.RefreshResult)
}

func newTestHandlers(ingestor Ingestor) *Handlers {
	return NewHandlers(ingestor, slog.Default(), "automated_upload")
}

func TestUploadSalesHandler(t *testing.T) {
	t.Run("happy path with default source", func(t *testing.T) {
		ingestor := new(MockIngestor)
		ingestor.On("UploadSales", mock.Anything, "/tmp/vendas.csv", "automated_upload").
			Return(models.UploadResult{Success: true, Inserted: 2, Total: 2, Errors: []string{}})

		h := newTestHandlers(ingestor)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sales",
			strings.NewReader(`{"filepath":"/tmp/vendas.csv"}`))
		rec := httptest.NewRecorder()

		h.UploadSales(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		ingestor.AssertExpectations(t)
	})

	t.Run("explicit source is passed through", func(t *testing.T) {
		ingestor := new(MockIngestor)
		ingestor.On("UploadSales", mock.Anything, "/tmp/vendas.csv", "manual").
			Return(models.UploadResult{Success: true, Errors: []string{}})

		h := newTestHandlers(ingestor)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sales",
			strings.NewReader(`{"filepath":"/tmp/vendas.csv","source":"manual"}`))
		rec := httptest.NewRecorder()

		h.UploadSales(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		ingestor.AssertExpectations(t)
	})

	t.Run("missing filepath is a bad request", func(t *testing.T) {
		h := newTestHandlers(new(MockIngestor))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sales",
			strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		h.UploadSales(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body is a bad request", func(t *testing.T) {
		h := newTestHandlers(new(MockIngestor))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/sales",
			strings.NewReader(`not json`))
		rec := httptest.NewRecorder()

		h.UploadSales(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUploadCustomersHandler(t *testing.T) {
	ingestor := new(MockIngestor)
	ingestor.On("UploadCustomers", mock.Anything, "/tmp/clientes.csv", "automated_upload").
		Return(models.UploadResult{Success: true, Inserted: 1, Updated: 3, Errors: []string{}})

	h := newTestHandlers(ingestor)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/customers",
		strings.NewReader(`{"filepath":"/tmp/clientes.csv"}`))
	rec := httptest.NewRecorder()

	h.UploadCustomers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":3`)
	ingestor.AssertExpectations(t)
}

func TestRefreshMetricsHandler(t *testing.T) {
	ingestor := new(MockIngestor)
	ingestor.On("RefreshCustomerMetrics", mock.Anything).
		Return(models.RefreshResult{Success: true, Updated: 17})

	h := newTestHandlers(ingestor)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/metrics/refresh", nil)
	rec := httptest.NewRecorder()

	h.RefreshMetrics(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"updated":17`)
}

func TestDetectFileTypeHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("Data_Hora;Maquinas\n"), 0o644))

	h := newTestHandlers(new(MockIngestor))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/detect",
		strings.NewReader(`{"filepath":"`+path+`"}`))
	rec := httptest.NewRecorder()

	h.DetectFileType(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"file_type":"sales"`)
}
