package importer

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ramonehamilton/mtg-inventory/internal/cards/scryfall"
	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// FaceSeparator joins the oracle text of multi-faced cards.
const FaceSeparator = "\n\n----------\n\n"

var (
	// ErrNotACard is returned for payloads whose object is not "card".
	ErrNotACard = errors.New("payload is not a card")

	// ErrUnknownColor is returned when color_identity holds a symbol outside WUBRG.
	ErrUnknownColor = errors.New("unknown color symbol")

	// ErrUnknownRarity is returned when the rarity does not map to a tracked rarity.
	ErrUnknownRarity = errors.New("unknown rarity")

	// ErrMissingArtist is returned when neither the card nor its first face names an artist.
	ErrMissingArtist = errors.New("card has no artist")
)

var braceStripper = strings.NewReplacer("{", "", "}", "")

// Record is a catalog card reduced to the fields the inventory stores,
// plus the relations to resolve before persisting.
type Record struct {
	Name       string
	TypeLine   string
	CMC        int
	ManaCost   *string
	Power      *int
	Toughness  *int
	Loyalty    *int
	ImageURL   *string
	OracleText *string

	Artist  string
	Rarity  *models.RaritySymbol
	Colors  []models.ColorSymbol
	Formats []models.FormatName
}

// Normalize maps a catalog card payload to a Record. It performs no I/O.
func Normalize(card *scryfall.Card) (*Record, error) {
	if card == nil || card.Object != "card" {
		return nil, ErrNotACard
	}

	var face *scryfall.CardFace
	if len(card.CardFaces) > 0 {
		face = &card.CardFaces[0]
	}

	rec := &Record{
		Name:     card.Name,
		TypeLine: card.TypeLine,
	}

	if card.CMC != nil {
		rec.CMC = int(*card.CMC)
	}

	manaCost := card.ManaCost
	if manaCost == "" && face != nil {
		manaCost = face.ManaCost
	}
	rec.ManaCost = optionalString(stripBraces(manaCost))

	power, toughness, loyalty := card.Power, card.Toughness, card.Loyalty
	if face != nil {
		power = lo.Ternary(power == "", face.Power, power)
		toughness = lo.Ternary(toughness == "", face.Toughness, toughness)
		loyalty = lo.Ternary(loyalty == "", face.Loyalty, loyalty)
	}
	rec.Power = parseStat(power)
	rec.Toughness = parseStat(toughness)
	rec.Loyalty = parseLoyalty(loyalty)

	rec.ImageURL = imageURL(card, face)
	rec.OracleText = oracleText(card)

	rec.Artist = card.Artist
	if rec.Artist == "" && face != nil {
		rec.Artist = face.Artist
	}
	if rec.Artist == "" {
		return nil, ErrMissingArtist
	}

	if card.Rarity != "" {
		rarity, ok := models.ParseRarity(card.Rarity)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRarity, card.Rarity)
		}
		rec.Rarity = &rarity
	}

	colors, err := parseColors(card.ColorIdentity)
	if err != nil {
		return nil, err
	}
	rec.Colors = colors
	rec.Formats = legalFormats(card.Legalities)

	return rec, nil
}

func stripBraces(s string) string {
	return braceStripper.Replace(s)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseStat reads power or toughness. A purely numeric value is kept;
// placeholders such as "*" or "1+*" become 0. Absent values stay nil.
func parseStat(s string) *int {
	if s == "" {
		return nil
	}
	n := 0
	if isDigits(s) {
		n, _ = strconv.Atoi(s)
	}
	return &n
}

// parseLoyalty keeps integer loyalty values. Variable loyalty ("X") is dropped.
func parseLoyalty(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func imageURL(card *scryfall.Card, face *scryfall.CardFace) *string {
	if card.ImageURIs != nil && card.ImageURIs.Normal != "" {
		return &card.ImageURIs.Normal
	}
	if face != nil && face.ImageURIs != nil && face.ImageURIs.Normal != "" {
		return &face.ImageURIs.Normal
	}
	return nil
}

func oracleText(card *scryfall.Card) *string {
	if len(card.CardFaces) == 0 {
		return optionalString(stripBraces(card.OracleText))
	}
	texts := lo.Map(card.CardFaces, func(f scryfall.CardFace, _ int) string {
		return f.OracleText
	})
	return optionalString(stripBraces(strings.Join(texts, FaceSeparator)))
}

func parseColors(identity []string) ([]models.ColorSymbol, error) {
	colors := make([]models.ColorSymbol, 0, len(identity))
	for _, symbol := range lo.Uniq(identity) {
		color, ok := models.ParseColor(symbol)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColor, symbol)
		}
		colors = append(colors, color)
	}
	return colors, nil
}

// legalFormats returns the tracked formats the card is legal in, sorted.
// Untracked format keys are ignored.
func legalFormats(legalities scryfall.Legalities) []models.FormatName {
	// A Caser is stateful and must not be shared between goroutines.
	caser := cases.Title(language.English)

	var formats []models.FormatName
	for key, status := range legalities {
		if status != "legal" {
			continue
		}
		if format, ok := models.ParseFormat(caser.String(key)); ok {
			formats = append(formats, format)
		}
	}
	slices.Sort(formats)
	return formats
}
