package inventory

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-inventory/internal/cards/importer"
	"github.com/ramonehamilton/mtg-inventory/internal/storage"
	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// fakeImporter records calls and optionally creates cards for the edition.
type fakeImporter struct {
	mu    sync.Mutex
	calls []string
	store *storage.Service
	cards int
	abort bool

	// onCard runs after each card is stored.
	onCard func(number int)
}

func (f *fakeImporter) ImportEdition(ctx context.Context, edition *models.Edition) *importer.Report {
	f.mu.Lock()
	f.calls = append(f.calls, edition.Code)
	f.mu.Unlock()

	report := &importer.Report{EditionCode: edition.Code, State: importer.StateDone, CardCount: f.cards}
	if f.abort {
		report.State = importer.StateAborted
		report.AbortReason = "catalog unavailable"
		return report
	}

	artist, err := f.store.GetOrCreateArtist(ctx, "Fake Artist")
	if err != nil {
		report.State = importer.StateAborted
		return report
	}
	for n := 1; n <= f.cards; n++ {
		if err := ctx.Err(); err != nil {
			report.State = importer.StateAborted
			report.AbortReason = err.Error()
			return report
		}
		card := &models.Card{Number: n, EditionID: edition.ID, Name: "Card", TypeLine: "Land", ArtistID: artist.ID}
		if err := f.store.CreateCard(ctx, card); err != nil {
			report.Failed++
			continue
		}
		report.Imported++
		if f.onCard != nil {
			f.onCard(n)
		}
	}
	return report
}

func setupServices(t *testing.T, cards int) (*Services, *fakeImporter) {
	t.Helper()
	store := storage.NewTestService(t)
	imp := &fakeImporter{store: store, cards: cards}
	return &Services{Storage: store, Importer: imp}, imp
}

func TestEditionService_CreateTriggersOneImport(t *testing.T) {
	services, imp := setupServices(t, 2)
	editions := NewEditionService(services)

	result, err := editions.CreateEdition(context.Background(), " tst ", "Test Set")
	require.NoError(t, err)

	assert.Equal(t, []string{"TST"}, imp.calls)
	assert.Equal(t, "TST", result.Edition.Code)
	assert.Equal(t, 2, result.Edition.CardCount)
	require.NotNil(t, result.Import)
	assert.Equal(t, importer.StateDone, result.Import.State)
	assert.Equal(t, 2, result.Import.Imported)
}

func TestEditionService_CreateImportOutlivesCaller(t *testing.T) {
	services, imp := setupServices(t, 3)
	editions := NewEditionService(services)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	imp.onCard = func(number int) {
		if number == 1 {
			cancel()
		}
	}

	result, err := editions.CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	assert.Equal(t, importer.StateDone, result.Import.State)
	assert.Equal(t, 3, result.Import.Imported)
	assert.Equal(t, 3, result.Edition.CardCount)

	count, err := services.Storage.CountEditionCards(context.Background(), result.Edition.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestEditionService_RenameDoesNotReimport(t *testing.T) {
	services, imp := setupServices(t, 1)
	editions := NewEditionService(services)
	ctx := context.Background()

	_, err := editions.CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)

	view, err := editions.RenameEdition(ctx, "tst", "Test Set Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Test Set Renamed", view.FullName)
	assert.Equal(t, 1, view.CardCount)

	assert.Len(t, imp.calls, 1)

	got, err := editions.GetEdition(ctx, "TST")
	require.NoError(t, err)
	assert.Equal(t, "Test Set Renamed", got.FullName)
}

func TestEditionService_AbortedImportStillCreates(t *testing.T) {
	services, imp := setupServices(t, 0)
	imp.abort = true
	editions := NewEditionService(services)

	result, err := editions.CreateEdition(context.Background(), "TST", "Test Set")
	require.NoError(t, err)
	assert.Equal(t, importer.StateAborted, result.Import.State)

	got, err := editions.GetEdition(context.Background(), "TST")
	require.NoError(t, err)
	assert.Zero(t, got.CardCount)
}

func TestEditionService_DuplicateCode(t *testing.T) {
	services, imp := setupServices(t, 0)
	editions := NewEditionService(services)
	ctx := context.Background()

	_, err := editions.CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)

	_, err = editions.CreateEdition(ctx, "tst", "Another Name")
	assert.ErrorIs(t, err, storage.ErrUniqueViolation)
	assert.Len(t, imp.calls, 1)
}

func TestEditionService_Validation(t *testing.T) {
	services, imp := setupServices(t, 0)
	editions := NewEditionService(services)
	ctx := context.Background()

	_, err := editions.CreateEdition(ctx, "", "Test Set")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = editions.CreateEdition(ctx, "TST", "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, imp.calls)

	_, err = editions.GetEdition(ctx, "NOPE")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEditionService_DeleteProtectedByCards(t *testing.T) {
	services, _ := setupServices(t, 1)
	editions := NewEditionService(services)
	ctx := context.Background()

	_, err := editions.CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)

	err = editions.DeleteEdition(ctx, "TST")
	assert.ErrorIs(t, err, storage.ErrProtected)

	_, err = editions.CreateEdition(ctx, "EMP", "Empty Set")
	require.NoError(t, err)
	// The fake importer gave EMP a card too; remove it first.
	page, err := NewCardService(services).ListCards(ctx, CardQuery{Edition: "EMP"})
	require.NoError(t, err)
	for _, c := range page.Cards {
		require.NoError(t, NewCardService(services).DeleteCard(ctx, c.ID))
	}
	require.NoError(t, editions.DeleteEdition(ctx, "EMP"))

	list, err := editions.ListEditions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "TST", list[0].Code)
}

func TestCardService_ListCards(t *testing.T) {
	services, _ := setupServices(t, 3)
	editions := NewEditionService(services)
	cards := NewCardService(services)
	ctx := context.Background()

	_, err := editions.CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)

	page, err := cards.ListCards(ctx, CardQuery{Edition: "tst", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.Limit)
	require.Len(t, page.Cards, 2)
	assert.Equal(t, 1, page.Cards[0].Number)
	assert.Equal(t, "TST", page.Cards[0].Edition)
	assert.Equal(t, "Fake Artist", page.Cards[0].Artist)

	page, err = cards.ListCards(ctx, CardQuery{Edition: "TST", Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, 3, page.Cards[0].Number)
	assert.Equal(t, DefaultPageSize, page.Limit)

	page, err = cards.ListCards(ctx, CardQuery{Format: "standard"})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.NotNil(t, page.Cards)
}

func TestCardService_InvalidFilters(t *testing.T) {
	services, _ := setupServices(t, 0)
	cards := NewCardService(services)
	ctx := context.Background()

	for _, q := range []CardQuery{
		{Rarity: "special"},
		{Rarity: "rubbish"},
		{Rarity: "cheese"},
		{Rarity: "myth"},
		{Color: "Q"},
		{Format: "brawl"},
		{Offset: -1},
	} {
		_, err := cards.ListCards(ctx, q)
		assert.ErrorIs(t, err, ErrInvalidInput, "query %+v", q)
	}

	page, err := cards.ListCards(ctx, CardQuery{Rarity: "mythic", Color: "g", Format: "EDH", Limit: MaxPageSize + 1})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.Limit)

	for _, rarity := range []string{"R", "r", "rare", "RARE"} {
		_, err := cards.ListCards(ctx, CardQuery{Rarity: rarity})
		assert.NoError(t, err, "rarity %q", rarity)
	}
}

func TestCardService_GetAndDeleteCard(t *testing.T) {
	services, _ := setupServices(t, 1)
	ctx := context.Background()

	_, err := NewEditionService(services).CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)

	cards := NewCardService(services)
	page, err := cards.ListCards(ctx, CardQuery{})
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)

	card, err := cards.GetCard(ctx, page.Cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Card", card.Name)
	assert.Empty(t, card.Colors)
	require.NotNil(t, card.OwnedCopies)
	assert.Zero(t, *card.OwnedCopies)
	assert.Nil(t, page.Cards[0].OwnedCopies)

	collection := NewCollectionService(services)
	user, err := collection.CreateUser(ctx, "owner")
	require.NoError(t, err)
	for _, condition := range []string{"NM", "LP"} {
		_, err = collection.AddInstance(ctx, user.ID, InstanceInput{CardID: card.ID, Language: "EN", Condition: condition})
		require.NoError(t, err)
	}

	card, err = cards.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *card.OwnedCopies)

	require.NoError(t, cards.DeleteCard(ctx, card.ID))
	_, err = cards.GetCard(ctx, card.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCardService_ReferenceListings(t *testing.T) {
	services, _ := setupServices(t, 0)
	cards := NewCardService(services)
	ctx := context.Background()

	colors, err := cards.ListColors(ctx)
	require.NoError(t, err)
	require.Len(t, colors, 5)
	assert.Equal(t, "W", colors[0].Code)
	assert.Equal(t, "White", colors[0].Display)

	formats, err := cards.ListFormats(ctx)
	require.NoError(t, err)
	assert.Len(t, formats, len(models.AllFormats()))

	rarities, err := cards.ListRarities(ctx)
	require.NoError(t, err)
	assert.Len(t, rarities, 4)

	artists, err := cards.ListArtists(ctx)
	require.NoError(t, err)
	assert.Empty(t, artists)
}

func TestCollectionService(t *testing.T) {
	services, _ := setupServices(t, 2)
	ctx := context.Background()

	_, err := NewEditionService(services).CreateEdition(ctx, "TST", "Test Set")
	require.NoError(t, err)
	page, err := NewCardService(services).ListCards(ctx, CardQuery{})
	require.NoError(t, err)
	require.Len(t, page.Cards, 2)

	collection := NewCollectionService(services)

	user, err := collection.CreateUser(ctx, "alice")
	require.NoError(t, err)

	note := "  signed  "
	first, err := collection.AddInstance(ctx, user.ID, InstanceInput{
		CardID: page.Cards[1].ID, Language: "en", Condition: "nm", Commentary: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, "EN", first.Language)
	assert.Equal(t, "NM", first.Condition)
	require.NotNil(t, first.Commentary)
	assert.Equal(t, "signed", *first.Commentary)
	assert.Equal(t, "TST", first.Edition)

	blank := " "
	second, err := collection.AddInstance(ctx, user.ID, InstanceInput{
		CardID: page.Cards[0].ID, Language: "JA", Condition: "PL", Commentary: &blank,
	})
	require.NoError(t, err)
	assert.Nil(t, second.Commentary)

	instances, err := collection.ListInstances(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, 1, instances[0].Number)
	assert.Equal(t, 2, instances[1].Number)

	require.NoError(t, collection.RemoveInstance(ctx, second.ID))
	assert.ErrorIs(t, collection.RemoveInstance(ctx, second.ID), storage.ErrNotFound)

	require.NoError(t, collection.DeleteUser(ctx, user.ID))
	_, err = collection.ListInstances(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollectionService_Validation(t *testing.T) {
	services, _ := setupServices(t, 0)
	collection := NewCollectionService(services)
	ctx := context.Background()

	_, err := collection.CreateUser(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	user, err := collection.CreateUser(ctx, "bob")
	require.NoError(t, err)

	_, err = collection.CreateUser(ctx, "bob")
	assert.ErrorIs(t, err, storage.ErrUniqueViolation)

	_, err = collection.AddInstance(ctx, user.ID, InstanceInput{CardID: 1, Language: "XX", Condition: "NM"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = collection.AddInstance(ctx, user.ID, InstanceInput{CardID: 1, Language: "EN", Condition: "mint"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	long := strings.Repeat("x", MaxCommentaryLength+1)
	_, err = collection.AddInstance(ctx, user.ID, InstanceInput{CardID: 1, Language: "EN", Condition: "NM", Commentary: &long})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = collection.AddInstance(ctx, user.ID, InstanceInput{CardID: 999, Language: "EN", Condition: "NM"})
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}
