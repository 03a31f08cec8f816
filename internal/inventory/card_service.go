package inventory

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// Card listing page sizes.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// CardService serves card and reference-data reads.
type CardService struct {
	services *Services
}

// NewCardService creates a new CardService with the given services.
func NewCardService(services *Services) *CardService {
	return &CardService{services: services}
}

// CardQuery holds raw listing filters as received from a client.
// Empty fields mean no filter.
type CardQuery struct {
	Edition string
	Rarity  string
	Color   string
	Format  string
	Search  string
	Limit   int
	Offset  int
}

// toFilter validates the query and converts it to a storage filter.
func (q CardQuery) toFilter() (models.CardFilter, error) {
	filter := models.CardFilter{
		EditionCode: strings.ToUpper(strings.TrimSpace(q.Edition)),
		NameQuery:   strings.TrimSpace(q.Search),
		Limit:       q.Limit,
		Offset:      q.Offset,
	}

	if q.Rarity != "" {
		rarity, ok := lo.Find(models.AllRarities(), func(r models.RaritySymbol) bool {
			return strings.EqualFold(string(r), q.Rarity) || strings.EqualFold(r.Display(), q.Rarity)
		})
		if !ok {
			return filter, invalid("unknown rarity " + q.Rarity)
		}
		filter.Rarity = rarity
	}
	if q.Color != "" {
		color, ok := models.ParseColor(strings.ToUpper(q.Color))
		if !ok {
			return filter, invalid("unknown color " + q.Color)
		}
		filter.Color = color
	}
	if q.Format != "" {
		format, ok := lo.Find(models.AllFormats(), func(f models.FormatName) bool {
			return strings.EqualFold(string(f), q.Format)
		})
		if !ok && strings.EqualFold(q.Format, "EDH") {
			format, ok = models.FormatCommander, true
		}
		if !ok {
			return filter, invalid("unknown format " + q.Format)
		}
		filter.Format = format
	}

	if filter.Offset < 0 {
		return filter, invalid("offset cannot be negative")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultPageSize
	case filter.Limit > MaxPageSize:
		filter.Limit = MaxPageSize
	}

	return filter, nil
}

// ListCards returns one page of cards matching the query, ordered by
// edition code then collector number.
func (s *CardService) ListCards(ctx context.Context, query CardQuery) (*CardPage, error) {
	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}

	cards, total, err := s.services.Storage.ListCards(ctx, filter)
	if err != nil {
		return nil, wrap("failed to list cards", err)
	}

	return &CardPage{
		Cards:      lo.Map(cards, func(c *models.Card, _ int) *CardView { return newCardView(c) }),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// GetCard returns one card with its relations.
func (s *CardService) GetCard(ctx context.Context, id int) (*CardView, error) {
	card, err := s.services.Storage.GetCard(ctx, id)
	if err != nil {
		return nil, wrap("card", err)
	}

	owned, err := s.services.Storage.CountCardInstances(ctx, card.ID)
	if err != nil {
		return nil, wrap("failed to count owned copies", err)
	}

	view := newCardView(card)
	view.OwnedCopies = &owned
	return view, nil
}

// DeleteCard removes a card and every owned copy of it.
func (s *CardService) DeleteCard(ctx context.Context, id int) error {
	if err := s.services.Storage.DeleteCard(ctx, id); err != nil {
		return wrap("failed to delete card", err)
	}
	return nil
}

// ListColors returns the seeded colors.
func (s *CardService) ListColors(ctx context.Context) ([]*ReferenceView, error) {
	colors, err := s.services.Storage.ListColors(ctx)
	if err != nil {
		return nil, wrap("failed to list colors", err)
	}
	return lo.Map(colors, func(c *models.Color, _ int) *ReferenceView {
		return &ReferenceView{ID: c.ID, Code: string(c.Symbol), Display: c.Symbol.Display()}
	}), nil
}

// ListFormats returns the seeded formats.
func (s *CardService) ListFormats(ctx context.Context) ([]*ReferenceView, error) {
	formats, err := s.services.Storage.ListFormats(ctx)
	if err != nil {
		return nil, wrap("failed to list formats", err)
	}
	return lo.Map(formats, func(f *models.Format, _ int) *ReferenceView {
		return &ReferenceView{ID: f.ID, Code: string(f.Name), Display: f.Name.Display()}
	}), nil
}

// ListRarities returns the seeded rarities.
func (s *CardService) ListRarities(ctx context.Context) ([]*ReferenceView, error) {
	rarities, err := s.services.Storage.ListRarities(ctx)
	if err != nil {
		return nil, wrap("failed to list rarities", err)
	}
	return lo.Map(rarities, func(r *models.Rarity, _ int) *ReferenceView {
		return &ReferenceView{ID: r.ID, Code: string(r.Symbol), Display: r.Symbol.Display()}
	}), nil
}

// ListArtists returns every artist seen by an import.
func (s *CardService) ListArtists(ctx context.Context) ([]*ArtistView, error) {
	artists, err := s.services.Storage.ListArtists(ctx)
	if err != nil {
		return nil, wrap("failed to list artists", err)
	}
	return lo.Map(artists, func(a *models.Artist, _ int) *ArtistView {
		return &ArtistView{ID: a.ID, Name: a.Name}
	}), nil
}
