package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
	"github.com/achieve-45/ProductCatalogService/pkg/logger"
	"github.com/achieve-45/ProductCatalogService/pkg/validator"
)

// Response is the JSON envelope used for client errors and banners.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a response. Only client errors carry a
// body: 400 answers with the error envelope, 404 and every fault answer with
// the bare status. Faults are logged with the request-scoped logger when the
// RequestLogger middleware is mounted, otherwise with fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, r, valErr)
		return
	}

	status := apperrors.HTTPStatus(err)
	switch {
	case status == http.StatusBadRequest:
		WriteJSON(w, status, Response{Error: clientError(r, err)})
	case status >= http.StatusInternalServerError:
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		w.WriteHeader(status)
	default:
		w.WriteHeader(status)
	}
}

func clientError(r *http.Request, err error) *ErrorResponse {
	resp := &ErrorResponse{
		Code:      "INVALID_INPUT",
		Message:   err.Error(),
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Code = appErr.Code
		resp.Message = appErr.Message
	}
	return resp
}

// WriteValidationError writes a 400 with field-level messages.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err *validator.ValidationError) {
	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Fields:    err.Fields(),
			RequestID: logger.CorrelationIDFromContext(r.Context()),
		},
	})
}

// ParseInt64 parses a path parameter as a base-10 int64. A malformed value
// yields an invalid-input error naming the parameter.
func ParseInt64(name, param string) (int64, error) {
	v, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(name + " must be an integer")
	}
	return v, nil
}
