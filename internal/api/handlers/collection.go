package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ramonehamilton/mtg-inventory/internal/api/response"
	"github.com/ramonehamilton/mtg-inventory/internal/export"
	"github.com/ramonehamilton/mtg-inventory/internal/inventory"
)

// CollectionService is the users and owned-copies API backed by
// *inventory.CollectionService.
type CollectionService interface {
	CreateUser(ctx context.Context, username string) (*inventory.UserView, error)
	DeleteUser(ctx context.Context, id int) error
	AddInstance(ctx context.Context, userID int, input inventory.InstanceInput) (*inventory.InstanceView, error)
	ListInstances(ctx context.Context, userID int) ([]*inventory.InstanceView, error)
	RemoveInstance(ctx context.Context, id int) error
}

// CollectionHandler handles user and card instance API requests.
type CollectionHandler struct {
	service CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

// CreateUserRequest represents a request to register a user.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreateUser registers a user.
func (h *CollectionHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, user)
}

// DeleteUser removes a user and their owned copies.
func (h *CollectionHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// GetInstances returns a user's owned copies.
func (h *CollectionHandler) GetInstances(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	instances, err := h.service.ListInstances(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, instances)
}

// ExportInstances streams a user's owned copies as a CSV or JSON download.
// The format query parameter selects the encoding and defaults to csv.
func (h *CollectionHandler) ExportInstances(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	instances, err := h.service.ListInstances(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	filename := export.Filename(fmt.Sprintf("collection_%d", userID), format, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	// Headers are already sent; a write failure only means the client went away.
	_ = export.Write(w, format, instances)
}

// AddInstance records an owned copy for a user.
func (h *CollectionHandler) AddInstance(w http.ResponseWriter, r *http.Request) {
	userID, err := intParam(r, "userID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	var req inventory.InstanceInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	instance, err := h.service.AddInstance(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, instance)
}

// RemoveInstance deletes one owned copy.
func (h *CollectionHandler) RemoveInstance(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "instanceID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.service.RemoveInstance(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}
