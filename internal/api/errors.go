package api

import (
	"errors"
	"net/http"

	"github.com/lexitra/lexitra/internal/service"
	"github.com/lexitra/lexitra/internal/store"
)

// MapErrorToStatusCode translates service and store errors into HTTP
// status codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionComplete):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoCardsRequested):
		return http.StatusBadRequest
	case store.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for the error.
// Internal details never reach the client; they are logged separately.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return "Session expired"
	case errors.Is(err, service.ErrSessionComplete):
		return "Session is already complete"
	case errors.Is(err, service.ErrNoCardsRequested):
		return "max_cards must be positive"
	case store.IsNotFoundError(err):
		return "Not found"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"
	default:
		return "Internal server error"
	}
}
