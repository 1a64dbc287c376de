package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
)

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 1 << 20

// DownstreamErrorResponse mirrors the httputil error envelope so structured
// errors from sibling services keep their code and message.
type DownstreamErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// StatusError is a non-2xx answer from another service. It matches
// apperrors.ErrDownstream, so callers of the catalog see it as a fault
// regardless of the status the other service chose.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	kind := "client error"
	if e.StatusCode >= http.StatusInternalServerError {
		kind = "server error"
	}
	if e.Code == "" {
		return fmt.Sprintf("%s %s (%d): %s", e.Service, kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s (%d/%s): %s", e.Service, kind, e.StatusCode, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return apperrors.ErrDownstream
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// translates it into an error. A 404 becomes a not-found error; every other
// status becomes a *StatusError.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w): %w",
			serviceName, resp.StatusCode, err, apperrors.ErrDownstream)
	}

	code, message := "", strings.TrimSpace(string(bodyBytes))
	var downstream DownstreamErrorResponse
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Error != nil {
		code, message = downstream.Error.Code, downstream.Error.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &apperrors.AppError{
			Kind:    apperrors.KindNotFound,
			Code:    "NOT_FOUND",
			Message: serviceName + ": " + message,
			Err:     apperrors.ErrNotFound,
		}
	}
	return &StatusError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Code:       code,
		Message:    message,
	}
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
