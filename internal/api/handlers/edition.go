package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-inventory/internal/api/response"
	"github.com/ramonehamilton/mtg-inventory/internal/inventory"
)

// EditionService is the edition API backed by *inventory.EditionService.
type EditionService interface {
	CreateEdition(ctx context.Context, code, fullName string) (*inventory.CreateEditionResult, error)
	GetEdition(ctx context.Context, code string) (*inventory.EditionView, error)
	ListEditions(ctx context.Context) ([]*inventory.EditionView, error)
	RenameEdition(ctx context.Context, code, fullName string) (*inventory.EditionView, error)
	DeleteEdition(ctx context.Context, code string) error
}

// EditionHandler handles edition-related API requests.
type EditionHandler struct {
	service EditionService
}

// NewEditionHandler creates a new EditionHandler.
func NewEditionHandler(service EditionService) *EditionHandler {
	return &EditionHandler{service: service}
}

// CreateEditionRequest represents a request to create an edition.
type CreateEditionRequest struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
}

// RenameEditionRequest represents a request to rename an edition.
type RenameEditionRequest struct {
	FullName string `json:"full_name"`
}

// ListEditions returns all editions.
func (h *EditionHandler) ListEditions(w http.ResponseWriter, r *http.Request) {
	editions, err := h.service.ListEditions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, editions)
}

// CreateEdition creates an edition and imports its cards. The response
// carries the import report; an aborted import still yields 201.
func (h *EditionHandler) CreateEdition(w http.ResponseWriter, r *http.Request) {
	var req CreateEditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	result, err := h.service.CreateEdition(r.Context(), req.Code, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, result)
}

// GetEdition returns a single edition by code.
func (h *EditionHandler) GetEdition(w http.ResponseWriter, r *http.Request) {
	edition, err := h.service.GetEdition(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, edition)
}

// RenameEdition updates an edition's full name.
func (h *EditionHandler) RenameEdition(w http.ResponseWriter, r *http.Request) {
	var req RenameEditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	edition, err := h.service.RenameEdition(r.Context(), chi.URLParam(r, "code"), req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, edition)
}

// DeleteEdition removes an edition that has no cards.
func (h *EditionHandler) DeleteEdition(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEdition(r.Context(), chi.URLParam(r, "code")); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}
