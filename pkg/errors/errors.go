package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the catalog packages.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("operation not supported")
	// ErrDownstream marks a failed call to another service. It is a fault
	// for our own callers whatever status the other service answered.
	ErrDownstream = errors.New("downstream call failed")
)

// Kind is the closed set of outcomes the HTTP boundary distinguishes.
type Kind int

const (
	// KindInternal is the zero value so unclassified errors are faults.
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// AppError carries a machine-readable code and a client-facing message next
// to its kind.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error for resource id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a client error whose message is shown to the caller.
func InvalidInput(message string) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// Unsupported reports an operation the active backend does not implement.
// The client did nothing wrong, so it is a fault.
func Unsupported(operation string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    "UNSUPPORTED",
		Message: operation + " is not supported by this backend",
		Err:     ErrUnsupported,
	}
}

// KindOf classifies err. AppErrors report their own kind; otherwise the
// wrapped sentinels decide, and anything else is internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// HTTPStatus returns 400, 404 or 500 for err.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
