package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
	"github.com/achieve-45/ProductCatalogService/pkg/logger"
	"github.com/achieve-45/ProductCatalogService/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"value"}`, rec.Body.String())
}

func TestResponse_OmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "ok"})

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.NotContains(t, raw, "error")
	assert.Contains(t, raw, "data")
}

func TestWriteError_InvalidInputHasMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/0", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-1"))

	WriteError(rec, req, apperrors.InvalidInput("id is invalid"), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "id is invalid", resp.Error.Message)
	assert.Equal(t, "corr-1", resp.Error.RequestID)
}

func TestWriteError_WrappedInvalidInputSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/search", nil)

	WriteError(rec, req, fmt.Errorf("query is empty: %w", apperrors.ErrInvalidInput), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "query is empty")
}

func TestWriteError_ValidationError(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}
	err := validator.Validate(payload{})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	WriteError(rec, req, fmt.Errorf("create: %w", err), testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "is required", resp.Error.Fields["name"])
}

func TestWriteError_EmptyBodies(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found app error", apperrors.NotFound("product", "9"), http.StatusNotFound},
		{"not found sentinel", fmt.Errorf("get: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"unknown fault", fmt.Errorf("connection reset"), http.StatusInternalServerError},
		{"unsupported", apperrors.Unsupported("create product"), http.StatusInternalServerError},
		{"downstream failure", fmt.Errorf("userservice: %w", apperrors.ErrDownstream), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/products/9", nil)

			WriteError(rec, req, tt.err, testLogger())

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Body.String())
		})
	}
}

type captureHandler struct {
	slog.Handler
	records *[]slog.Record
}

func (h captureHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}

func TestWriteError_LogsFaultsWithRequestLogger(t *testing.T) {
	var records []slog.Record
	l := slog.New(captureHandler{Handler: slog.NewTextHandler(os.Stderr, nil), records: &records})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req = req.WithContext(logger.NewContext(req.Context(), l))

	WriteError(rec, req, fmt.Errorf("db down"), testLogger())
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelError, records[0].Level)

	records = nil
	WriteError(httptest.NewRecorder(), req, apperrors.ErrNotFound, testLogger())
	assert.Empty(t, records, "not-found is not logged")
}

func TestParseInt64(t *testing.T) {
	v, err := ParseInt64("id", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = ParseInt64("id", "-3")
	require.NoError(t, err)
	assert.Equal(t, int64(-3), v)

	_, err = ParseInt64("id", "abc")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInvalidInput, appErr.Kind)
	assert.Equal(t, "id must be an integer", appErr.Message)
}
