// Package engineerr defines the error kinds surfaced at the engine boundary.
// Every engine operation that can fail wraps one of these sentinels so that
// callers can branch on the kind with errors.Is instead of matching strings.
package engineerr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates that a referenced alert or patient does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed input, such as an empty drug name
	// or a drug paired with itself.
	ErrValidation = errors.New("validation error")

	// ErrUnavailable indicates that the knowledge base or alert store could
	// not be reached. A failed check must never be conflated with an empty
	// result.
	ErrUnavailable = errors.New("unavailable")

	// ErrTimeout indicates that an operation exceeded its deadline.
	ErrTimeout = errors.New("timeout")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Unavailablef wraps ErrUnavailable with a formatted message.
func Unavailablef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnavailable)...)
}

// Timeoutf wraps ErrTimeout with a formatted message.
func Timeoutf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrTimeout)...)
}

// HTTPStatus maps an error to the HTTP status code handlers should return.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
