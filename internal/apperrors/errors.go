package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the booking core. Callers wrap them with context
// using fmt.Errorf("...: %w", kind) and match with errors.Is.
var (
	ErrNotFound              = errors.New("not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrConflict              = errors.New("conflict")
)

func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// HTTPStatus maps an error onto the status code the UI expects.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientInventory),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
