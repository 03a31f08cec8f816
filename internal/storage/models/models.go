package models

import (
	"fmt"
	"time"
)

// Edition represents a released set of cards.
// Creating an edition triggers the catalog import for its card list.
type Edition struct {
	ID        int
	Code      string // Short set code (e.g., "DOM")
	FullName  string
	CreatedAt time.Time
}

// String returns "CODE - Full Name".
func (e *Edition) String() string {
	return fmt.Sprintf("%s - %s", e.Code, e.FullName)
}

// Color is a seeded color row.
type Color struct {
	ID     int
	Symbol ColorSymbol
}

// Format is a seeded play format row.
type Format struct {
	ID   int
	Name FormatName
}

// Rarity is a seeded rarity row.
type Rarity struct {
	ID     int
	Symbol RaritySymbol
}

// Artist is created lazily the first time the importer sees a new name.
type Artist struct {
	ID   int
	Name string
}

// User is the owner of card instances. Authentication lives elsewhere;
// only the identity needed for ownership is stored here.
type User struct {
	ID        int
	Username  string
	CreatedAt time.Time
}

// Card is a single card definition within an edition.
// The (Number, EditionID) pair is unique.
type Card struct {
	ID         int
	Number     int // Collector number within the edition
	EditionID  int
	Name       string
	TypeLine   string
	RarityID   *int // Nullable
	CMC        int
	ManaCost   *string // Nullable, braces stripped
	Power      *int    // Nullable
	Toughness  *int    // Nullable
	Loyalty    *int    // Nullable
	ImageURL   *string // Nullable
	ArtistID   int
	OracleText *string // Nullable, braces stripped

	// Populated by detail and list reads; not written by CreateCard.
	EditionCode string
	ArtistName  string
	Rarity      *RaritySymbol
	Colors      []ColorSymbol
	Formats     []FormatName
}

// String returns "CODE/number - name".
func (c *Card) String() string {
	return fmt.Sprintf("%s/%d - %s", c.EditionCode, c.Number, c.Name)
}

// CardInstance is one physically owned copy of a card.
type CardInstance struct {
	ID         int
	UserID     int
	CardID     int
	Language   Language
	Condition  Condition
	Commentary *string // Nullable
	CreatedAt  time.Time

	// Populated by list reads.
	CardName    string
	EditionCode string
	CardNumber  int
}

// CardFilter narrows card listings. Zero values mean "no filter".
type CardFilter struct {
	EditionCode string
	Rarity      RaritySymbol
	Color       ColorSymbol
	Format      FormatName
	NameQuery   string
	Limit       int
	Offset      int
}
