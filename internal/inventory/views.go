package inventory

import (
	"time"

	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// EditionView is an edition as returned to clients.
type EditionView struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	FullName  string    `json:"fullName"`
	CardCount int       `json:"cardCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// CardView is a card with its relations resolved to display values.
type CardView struct {
	ID         int      `json:"id"`
	Number     int      `json:"number"`
	Edition    string   `json:"edition"`
	Name       string   `json:"name"`
	TypeLine   string   `json:"typeLine"`
	Rarity     string   `json:"rarity,omitempty"`
	CMC        int      `json:"cmc"`
	ManaCost   *string  `json:"manaCost,omitempty"`
	Power      *int     `json:"power,omitempty"`
	Toughness  *int     `json:"toughness,omitempty"`
	Loyalty    *int     `json:"loyalty,omitempty"`
	ImageURL   *string  `json:"imageUrl,omitempty"`
	Artist     string   `json:"artist"`
	OracleText *string  `json:"oracleText,omitempty"`
	Colors     []string `json:"colors"`
	Formats    []string `json:"formats"`

	// OwnedCopies is set on single-card reads only.
	OwnedCopies *int `json:"ownedCopies,omitempty"`
}

// CardPage is one page of a filtered card listing.
type CardPage struct {
	Cards      []*CardView `json:"cards"`
	TotalCount int         `json:"totalCount"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

// ReferenceView is a seeded reference row: a color, format or rarity.
type ReferenceView struct {
	ID      int    `json:"id"`
	Code    string `json:"code"`
	Display string `json:"display"`
}

// ArtistView is an artist row.
type ArtistView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UserView is a user row.
type UserView struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// InstanceView is one owned copy.
type InstanceView struct {
	ID         int       `json:"id" csv:"id"`
	UserID     int       `json:"userId" csv:"user_id"`
	CardID     int       `json:"cardId" csv:"card_id"`
	CardName   string    `json:"cardName,omitempty" csv:"card_name"`
	Edition    string    `json:"edition,omitempty" csv:"edition"`
	Number     int       `json:"number,omitempty" csv:"number"`
	Language   string    `json:"language" csv:"language"`
	Condition  string    `json:"condition" csv:"condition"`
	Commentary *string   `json:"commentary,omitempty" csv:"commentary"`
	CreatedAt  time.Time `json:"createdAt" csv:"created_at"`
}

func newEditionView(e *models.Edition, cardCount int) *EditionView {
	return &EditionView{
		ID:        e.ID,
		Code:      e.Code,
		FullName:  e.FullName,
		CardCount: cardCount,
		CreatedAt: e.CreatedAt,
	}
}

func newCardView(c *models.Card) *CardView {
	view := &CardView{
		ID:         c.ID,
		Number:     c.Number,
		Edition:    c.EditionCode,
		Name:       c.Name,
		TypeLine:   c.TypeLine,
		CMC:        c.CMC,
		ManaCost:   c.ManaCost,
		Power:      c.Power,
		Toughness:  c.Toughness,
		Loyalty:    c.Loyalty,
		ImageURL:   c.ImageURL,
		Artist:     c.ArtistName,
		OracleText: c.OracleText,
		Colors:     lo.Map(c.Colors, func(s models.ColorSymbol, _ int) string { return string(s) }),
		Formats:    lo.Map(c.Formats, func(f models.FormatName, _ int) string { return string(f) }),
	}
	if c.Rarity != nil {
		view.Rarity = string(*c.Rarity)
	}
	return view
}

func newInstanceView(i *models.CardInstance) *InstanceView {
	return &InstanceView{
		ID:         i.ID,
		UserID:     i.UserID,
		CardID:     i.CardID,
		CardName:   i.CardName,
		Edition:    i.EditionCode,
		Number:     i.CardNumber,
		Language:   string(i.Language),
		Condition:  string(i.Condition),
		Commentary: i.Commentary,
		CreatedAt:  i.CreatedAt,
	}
}
