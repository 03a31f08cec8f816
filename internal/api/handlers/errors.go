package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-inventory/internal/api/response"
	"github.com/ramonehamilton/mtg-inventory/internal/inventory"
	"github.com/ramonehamilton/mtg-inventory/internal/storage"
)

// writeError maps service and storage errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		response.NotFound(w, err)
	case errors.Is(err, storage.ErrUniqueViolation), errors.Is(err, storage.ErrProtected):
		response.Conflict(w, err)
	case errors.Is(err, inventory.ErrInvalidInput),
		errors.Is(err, storage.ErrInvalidReference),
		errors.Is(err, storage.ErrInvalidValue):
		response.BadRequest(w, err)
	default:
		response.InternalError(w, err)
	}
}

// intParam reads a positive integer URL parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errors.New(name + " is required")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// intQuery reads an optional non-negative integer query parameter.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
