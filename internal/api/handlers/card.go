package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/mtg-inventory/internal/api/response"
	"github.com/ramonehamilton/mtg-inventory/internal/inventory"
)

// CardService is the card and reference API backed by *inventory.CardService.
type CardService interface {
	ListCards(ctx context.Context, query inventory.CardQuery) (*inventory.CardPage, error)
	GetCard(ctx context.Context, id int) (*inventory.CardView, error)
	DeleteCard(ctx context.Context, id int) error
	ListColors(ctx context.Context) ([]*inventory.ReferenceView, error)
	ListFormats(ctx context.Context) ([]*inventory.ReferenceView, error)
	ListRarities(ctx context.Context) ([]*inventory.ReferenceView, error)
	ListArtists(ctx context.Context) ([]*inventory.ArtistView, error)
}

// CardHandler handles card-related API requests.
type CardHandler struct {
	service CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(service CardService) *CardHandler {
	return &CardHandler{service: service}
}

// ListCards returns a filtered page of cards.
// Query params: edition, rarity, color, format, q, limit, offset.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intQuery(r, "limit")
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	offset, err := intQuery(r, "offset")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	page, err := h.service.ListCards(r.Context(), inventory.CardQuery{
		Edition: q.Get("edition"),
		Rarity:  q.Get("rarity"),
		Color:   q.Get("color"),
		Format:  q.Get("format"),
		Search:  q.Get("q"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	response.Paginated(w, page.Cards, page.Limit, page.Offset, page.TotalCount)
}

// GetCard returns a single card by ID.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "cardID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	card, err := h.service.GetCard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, card)
}

// DeleteCard removes a card and its owned copies.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "cardID")
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.service.DeleteCard(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// GetColors returns the seeded colors.
func (h *CardHandler) GetColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.service.ListColors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, colors)
}

// GetFormats returns the seeded formats.
func (h *CardHandler) GetFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := h.service.ListFormats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, formats)
}

// GetRarities returns the seeded rarities.
func (h *CardHandler) GetRarities(w http.ResponseWriter, r *http.Request) {
	rarities, err := h.service.ListRarities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, rarities)
}

// GetArtists returns all known artists.
func (h *CardHandler) GetArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.service.ListArtists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, artists)
}
