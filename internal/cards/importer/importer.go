// Package importer populates an edition's cards from the Scryfall catalog.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/mtg-inventory/internal/cards/scryfall"
	"github.com/ramonehamilton/mtg-inventory/internal/metrics"
	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// CatalogClient is the part of the Scryfall client the importer uses.
type CatalogClient interface {
	GetSet(ctx context.Context, code string) (*scryfall.Set, error)
	GetCardByCollectorNumber(ctx context.Context, code string, number int) (*scryfall.Card, error)
}

// Store is the persistence the importer writes through.
type Store interface {
	CardExists(ctx context.Context, editionID, number int) (bool, error)
	GetOrCreateArtist(ctx context.Context, name string) (*models.Artist, error)
	GetColor(ctx context.Context, symbol models.ColorSymbol) (*models.Color, error)
	GetFormat(ctx context.Context, name models.FormatName) (*models.Format, error)
	GetRarity(ctx context.Context, symbol models.RaritySymbol) (*models.Rarity, error)
	CreateImportedCard(ctx context.Context, card *models.Card, colorIDs, formatIDs []int) error
}

// Recorder receives import outcomes.
type Recorder interface {
	ObserveImport(result string, elapsed time.Duration)
	AddCards(outcome string, n int)
}

// Options configures the import process.
type Options struct {
	// Progress is an optional callback invoked after each collector number
	// with (current, total).
	Progress func(current, total int)

	Metrics Recorder
	Logger  *slog.Logger
}

// State is the lifecycle stage of one edition import.
type State string

const (
	StatePending  State = "pending"
	StateFetching State = "fetching"
	StateDone     State = "done"
	StateAborted  State = "aborted"
)

// Failure describes one card that could not be imported.
type Failure struct {
	Number int    `json:"number"`
	Error  string `json:"error"`
}

// Report summarizes one edition import.
type Report struct {
	RunID       uuid.UUID `json:"run_id"`
	EditionCode string    `json:"edition_code"`
	State       State     `json:"state"`
	AbortReason string    `json:"abort_reason,omitempty"`

	CardCount int `json:"card_count"`
	Current   int `json:"current"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`

	Failures []Failure `json:"failures,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the import ran.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Importer runs edition imports one card at a time.
type Importer struct {
	client  CatalogClient
	store   Store
	options Options
	logger  *slog.Logger
}

// New creates a new importer.
func New(client CatalogClient, store Store, options Options) *Importer {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		client:  client,
		store:   store,
		options: options,
		logger:  logger.With("component", "importer"),
	}
}

// ImportEdition fetches the edition's card count and imports collector
// numbers 1..card_count in order. It never returns an error: metadata
// failures abort the run, per-card failures are recorded and skipped.
func (imp *Importer) ImportEdition(ctx context.Context, edition *models.Edition) *Report {
	report := &Report{
		RunID:       uuid.New(),
		EditionCode: edition.Code,
		State:       StatePending,
		StartedAt:   time.Now(),
	}
	logger := imp.logger.With("edition", edition.Code, "run_id", report.RunID.String())
	defer imp.finish(report, logger)

	code := strings.ToLower(edition.Code)

	set, err := imp.client.GetSet(ctx, code)
	if err != nil {
		report.abort(fmt.Sprintf("fetch set metadata: %v", err))
		return report
	}
	if set.CardCount == nil {
		report.abort("set metadata has no card_count")
		return report
	}
	if *set.CardCount < 0 {
		report.abort(fmt.Sprintf("invalid card_count %d", *set.CardCount))
		return report
	}

	report.CardCount = *set.CardCount
	report.State = StateFetching
	logger.Info("importing edition", "card_count", report.CardCount)

	refs := newReferenceCache(imp.store)

	for number := 1; number <= report.CardCount; number++ {
		if err := ctx.Err(); err != nil {
			report.abort(fmt.Sprintf("cancelled at card %d: %v", number, err))
			return report
		}
		report.Current = number

		skipped, err := imp.importCard(ctx, edition, code, number, refs)
		switch {
		case err != nil && ctx.Err() != nil:
			report.abort(fmt.Sprintf("cancelled at card %d: %v", number, ctx.Err()))
			return report
		case err != nil:
			report.Failed++
			report.Failures = append(report.Failures, Failure{Number: number, Error: err.Error()})
			logger.Warn("failed to import card", "number", number, "error", err)
		case skipped:
			report.Skipped++
		default:
			report.Imported++
		}

		if imp.options.Progress != nil {
			imp.options.Progress(number, report.CardCount)
		}
	}

	report.State = StateDone
	return report
}

// importCard imports one collector number. It reports skipped=true for
// numbers already stored and for payloads that are not cards.
func (imp *Importer) importCard(ctx context.Context, edition *models.Edition, code string, number int, refs *referenceCache) (bool, error) {
	exists, err := imp.store.CardExists(ctx, edition.ID, number)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	payload, err := imp.client.GetCardByCollectorNumber(ctx, code, number)
	if err != nil {
		return false, err
	}

	rec, err := Normalize(payload)
	if errors.Is(err, ErrNotACard) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	artist, err := imp.store.GetOrCreateArtist(ctx, rec.Artist)
	if err != nil {
		return false, err
	}

	card := &models.Card{
		Number:     number,
		EditionID:  edition.ID,
		Name:       rec.Name,
		TypeLine:   rec.TypeLine,
		CMC:        rec.CMC,
		ManaCost:   rec.ManaCost,
		Power:      rec.Power,
		Toughness:  rec.Toughness,
		Loyalty:    rec.Loyalty,
		ImageURL:   rec.ImageURL,
		ArtistID:   artist.ID,
		OracleText: rec.OracleText,
	}

	if rec.Rarity != nil {
		id, err := refs.rarity(ctx, *rec.Rarity)
		if err != nil {
			return false, err
		}
		card.RarityID = &id
	}

	colorIDs := make([]int, 0, len(rec.Colors))
	for _, symbol := range rec.Colors {
		id, err := refs.color(ctx, symbol)
		if err != nil {
			return false, err
		}
		colorIDs = append(colorIDs, id)
	}

	formatIDs := make([]int, 0, len(rec.Formats))
	for _, name := range rec.Formats {
		id, err := refs.format(ctx, name)
		if err != nil {
			return false, err
		}
		formatIDs = append(formatIDs, id)
	}

	if err := imp.store.CreateImportedCard(ctx, card, colorIDs, formatIDs); err != nil {
		return false, err
	}
	return false, nil
}

func (r *Report) abort(reason string) {
	r.State = StateAborted
	r.AbortReason = reason
}

func (imp *Importer) finish(report *Report, logger *slog.Logger) {
	report.FinishedAt = time.Now()

	result := metrics.ResultDone
	if report.State == StateAborted {
		result = metrics.ResultAborted
		logger.Error("edition import aborted",
			"reason", report.AbortReason, "imported", report.Imported, "failed", report.Failed)
	} else {
		logger.Info("edition import finished",
			"imported", report.Imported, "skipped", report.Skipped,
			"failed", report.Failed, "duration", report.Duration())
	}

	if m := imp.options.Metrics; m != nil {
		m.ObserveImport(result, report.Duration())
		m.AddCards(metrics.CardsImported, report.Imported)
		m.AddCards(metrics.CardsSkipped, report.Skipped)
		m.AddCards(metrics.CardsFailed, report.Failed)
	}
}

// referenceCache memoizes seeded reference row IDs for one import run.
type referenceCache struct {
	store    Store
	colors   map[models.ColorSymbol]int
	formats  map[models.FormatName]int
	rarities map[models.RaritySymbol]int
}

func newReferenceCache(store Store) *referenceCache {
	return &referenceCache{
		store:    store,
		colors:   make(map[models.ColorSymbol]int),
		formats:  make(map[models.FormatName]int),
		rarities: make(map[models.RaritySymbol]int),
	}
}

func (c *referenceCache) color(ctx context.Context, symbol models.ColorSymbol) (int, error) {
	if id, ok := c.colors[symbol]; ok {
		return id, nil
	}
	color, err := c.store.GetColor(ctx, symbol)
	if err != nil {
		return 0, err
	}
	c.colors[symbol] = color.ID
	return color.ID, nil
}

func (c *referenceCache) format(ctx context.Context, name models.FormatName) (int, error) {
	if id, ok := c.formats[name]; ok {
		return id, nil
	}
	format, err := c.store.GetFormat(ctx, name)
	if err != nil {
		return 0, err
	}
	c.formats[name] = format.ID
	return format.ID, nil
}

func (c *referenceCache) rarity(ctx context.Context, symbol models.RaritySymbol) (int, error) {
	if id, ok := c.rarities[symbol]; ok {
		return id, nil
	}
	rarity, err := c.store.GetRarity(ctx, symbol)
	if err != nil {
		return 0, err
	}
	c.rarities[symbol] = rarity.ID
	return rarity.ID, nil
}
