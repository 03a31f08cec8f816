package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

func createTestEdition(t *testing.T, s *Service, code, name string) *models.Edition {
	t.Helper()
	edition := &models.Edition{Code: code, FullName: name}
	require.NoError(t, s.CreateEdition(context.Background(), edition))
	return edition
}

func createTestCard(t *testing.T, s *Service, edition *models.Edition, number int, name string) *models.Card {
	t.Helper()
	ctx := context.Background()

	artist, err := s.GetOrCreateArtist(ctx, "Test Artist")
	require.NoError(t, err)

	card := &models.Card{
		Number:    number,
		EditionID: edition.ID,
		Name:      name,
		TypeLine:  "Creature — Test",
		ArtistID:  artist.ID,
	}
	require.NoError(t, s.CreateCard(ctx, card))
	return card
}

func TestService_SeedReferenceDataIsIdempotent(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	// NewTestService already seeded once.
	require.NoError(t, s.SeedReferenceData(ctx))

	colors, err := s.ListColors(ctx)
	require.NoError(t, err)
	assert.Len(t, colors, 5)

	formats, err := s.ListFormats(ctx)
	require.NoError(t, err)
	assert.Len(t, formats, len(models.AllFormats()))

	rarities, err := s.ListRarities(ctx)
	require.NoError(t, err)
	assert.Len(t, rarities, 4)

	for _, symbol := range models.AllColors() {
		color, err := s.GetColor(ctx, symbol)
		require.NoError(t, err)
		assert.Equal(t, symbol, color.Symbol)
	}
}

func TestService_ReferenceLookupMissing(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	_, err := s.GetColor(ctx, "X")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetFormat(ctx, "Brawl")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetRarity(ctx, "S")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_EditionUniqueness(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	createTestEdition(t, s, "DOM", "Dominaria")

	err := s.CreateEdition(ctx, &models.Edition{Code: "DOM", FullName: "Another"})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	err = s.CreateEdition(ctx, &models.Edition{Code: "XXX", FullName: "Dominaria"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestService_EditionRenameAndList(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	m19 := createTestEdition(t, s, "M19", "Core Set 2019")
	createTestEdition(t, s, "DOM", "Dominaria")

	require.NoError(t, s.UpdateEditionName(ctx, m19.ID, "Magic 2019"))

	got, err := s.GetEditionByCode(ctx, "M19")
	require.NoError(t, err)
	assert.Equal(t, "Magic 2019", got.FullName)
	assert.Equal(t, "M19 - Magic 2019", got.String())

	editions, err := s.ListEditions(ctx)
	require.NoError(t, err)
	require.Len(t, editions, 2)
	assert.Equal(t, "DOM", editions[0].Code)
	assert.Equal(t, "M19", editions[1].Code)

	assert.ErrorIs(t, s.UpdateEditionName(ctx, 9999, "Nope"), ErrNotFound)

	_, err = s.GetEditionByCode(ctx, "ZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CardNumberUniquePerEdition(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	m19 := createTestEdition(t, s, "M19", "Core Set 2019")

	first := createTestCard(t, s, dom, 1, "Karn's Temporal Sundering")

	duplicate := &models.Card{
		Number:    1,
		EditionID: dom.ID,
		Name:      "Other",
		TypeLine:  "Instant",
		ArtistID:  first.ArtistID,
	}
	assert.ErrorIs(t, s.CreateCard(ctx, duplicate), ErrUniqueViolation)

	// Same number in another edition is fine.
	createTestCard(t, s, m19, 1, "Aegis of the Heavens")

	exists, err := s.CardExists(ctx, dom.ID, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.CardExists(ctx, dom.ID, 2)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_DeleteEditionProtectedByCards(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	card := createTestCard(t, s, dom, 1, "Card")

	assert.ErrorIs(t, s.DeleteEdition(ctx, dom.ID), ErrProtected)

	require.NoError(t, s.DeleteCard(ctx, card.ID))
	require.NoError(t, s.DeleteEdition(ctx, dom.ID))

	_, err := s.GetEditionByCode(ctx, "DOM")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetOrCreateArtistReturnsSameRow(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	a1, err := s.GetOrCreateArtist(ctx, "Rebecca Guay")
	require.NoError(t, err)
	a2, err := s.GetOrCreateArtist(ctx, "Rebecca Guay")
	require.NoError(t, err)

	assert.Equal(t, a1.ID, a2.ID)

	artists, err := s.ListArtists(ctx)
	require.NoError(t, err)
	assert.Len(t, artists, 1)
}

func TestService_CreateImportedCardAttachesRelations(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	artist, err := s.GetOrCreateArtist(ctx, "Chris Rahn")
	require.NoError(t, err)
	rare, err := s.GetRarity(ctx, models.RarityRare)
	require.NoError(t, err)
	blue, err := s.GetColor(ctx, models.ColorBlue)
	require.NoError(t, err)
	red, err := s.GetColor(ctx, models.ColorRed)
	require.NoError(t, err)
	modern, err := s.GetFormat(ctx, models.FormatModern)
	require.NoError(t, err)

	mana := "1UR"
	power, toughness := 3, 3
	card := &models.Card{
		Number:    200,
		EditionID: dom.ID,
		Name:      "Adeliz, the Cinder Wind",
		TypeLine:  "Legendary Creature — Human Wizard",
		RarityID:  &rare.ID,
		CMC:       3,
		ManaCost:  &mana,
		Power:     &power,
		Toughness: &toughness,
		ArtistID:  artist.ID,
	}
	require.NoError(t, s.CreateImportedCard(ctx, card, []int{blue.ID, red.ID}, []int{modern.ID}))
	require.NotZero(t, card.ID)

	got, err := s.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "DOM", got.EditionCode)
	assert.Equal(t, "Chris Rahn", got.ArtistName)
	require.NotNil(t, got.Rarity)
	assert.Equal(t, models.RarityRare, *got.Rarity)
	assert.Equal(t, []models.ColorSymbol{models.ColorBlue, models.ColorRed}, got.Colors)
	assert.Equal(t, []models.FormatName{models.FormatModern}, got.Formats)
	require.NotNil(t, got.ManaCost)
	assert.Equal(t, "1UR", *got.ManaCost)
	assert.Nil(t, got.Loyalty)
	assert.Nil(t, got.OracleText)
}

func TestService_CreateImportedCardRollsBack(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	artist, err := s.GetOrCreateArtist(ctx, "Someone")
	require.NoError(t, err)

	card := &models.Card{
		Number:    5,
		EditionID: dom.ID,
		Name:      "Broken",
		TypeLine:  "Sorcery",
		ArtistID:  artist.ID,
	}
	err = s.CreateImportedCard(ctx, card, []int{9999}, nil)
	assert.ErrorIs(t, err, ErrInvalidReference)

	exists, err := s.CardExists(ctx, dom.ID, 5)
	require.NoError(t, err)
	assert.False(t, exists, "card row must not survive a failed attach")
}

func TestService_ListCardsFilters(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	m19 := createTestEdition(t, s, "M19", "Core Set 2019")
	artist, err := s.GetOrCreateArtist(ctx, "A")
	require.NoError(t, err)
	common, err := s.GetRarity(ctx, models.RarityCommon)
	require.NoError(t, err)
	green, err := s.GetColor(ctx, models.ColorGreen)
	require.NoError(t, err)
	pauper, err := s.GetFormat(ctx, models.FormatPauper)
	require.NoError(t, err)

	add := func(edition *models.Edition, number int, name string, colors, formats []int) {
		card := &models.Card{
			Number: number, EditionID: edition.ID, Name: name, TypeLine: "Creature",
			RarityID: &common.ID, ArtistID: artist.ID,
		}
		require.NoError(t, s.CreateImportedCard(ctx, card, colors, formats))
	}
	add(m19, 2, "Llanowar Elves", []int{green.ID}, []int{pauper.ID})
	add(dom, 3, "Grow from the Ashes", []int{green.ID}, nil)
	add(dom, 1, "Llanowar Envoy", nil, []int{pauper.ID})

	cards, total, err := s.ListCards(ctx, models.CardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, cards, 3)
	// Ordered by edition code, then number.
	assert.Equal(t, "Llanowar Envoy", cards[0].Name)
	assert.Equal(t, "Grow from the Ashes", cards[1].Name)
	assert.Equal(t, "M19", cards[2].EditionCode)

	cards, total, err = s.ListCards(ctx, models.CardFilter{EditionCode: "DOM"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, cards, 2)

	cards, total, err = s.ListCards(ctx, models.CardFilter{Color: models.ColorGreen})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, cards, 2)

	cards, total, err = s.ListCards(ctx, models.CardFilter{Format: models.FormatPauper, NameQuery: "Llanowar"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, cards, 2)

	cards, total, err = s.ListCards(ctx, models.CardFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, cards, 1)
	assert.Equal(t, "Grow from the Ashes", cards[0].Name)

	cards, total, err = s.ListCards(ctx, models.CardFilter{Rarity: models.RarityMythic})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, cards)
}

func TestService_DeleteUserCascadesInstances(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	card := createTestCard(t, s, dom, 1, "Card")

	user := &models.User{Username: "alice"}
	require.NoError(t, s.CreateUser(ctx, user))

	instance := &models.CardInstance{
		UserID:    user.ID,
		CardID:    card.ID,
		Language:  models.LanguageEnglish,
		Condition: models.ConditionNearlyMint,
	}
	require.NoError(t, s.AddCardInstance(ctx, instance))

	instances, err := s.ListCardInstances(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, "Card", instances[0].CardName)
	assert.Equal(t, "DOM", instances[0].EditionCode)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	count, err := s.CountCardInstances(ctx, card.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The card itself is untouched.
	_, err = s.GetCard(ctx, card.ID)
	assert.NoError(t, err)
}

func TestService_DeleteCardCascadesInstances(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	card := createTestCard(t, s, dom, 1, "Card")
	user := &models.User{Username: "bob"}
	require.NoError(t, s.CreateUser(ctx, user))

	note := "signed"
	instance := &models.CardInstance{
		UserID: user.ID, CardID: card.ID,
		Language: models.LanguageJapanese, Condition: models.ConditionPlayed,
		Commentary: &note,
	}
	require.NoError(t, s.AddCardInstance(ctx, instance))

	got, err := s.GetCardInstance(ctx, instance.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Commentary)
	assert.Equal(t, "signed", *got.Commentary)

	require.NoError(t, s.DeleteCard(ctx, card.ID))

	_, err = s.GetCardInstance(ctx, instance.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetUser(ctx, user.ID)
	assert.NoError(t, err)
}

func TestService_AddCardInstanceRejectsBadInput(t *testing.T) {
	s := NewTestService(t)
	ctx := context.Background()

	dom := createTestEdition(t, s, "DOM", "Dominaria")
	card := createTestCard(t, s, dom, 1, "Card")
	user := &models.User{Username: "carol"}
	require.NoError(t, s.CreateUser(ctx, user))

	err := s.AddCardInstance(ctx, &models.CardInstance{
		UserID: user.ID, CardID: card.ID, Language: "XX", Condition: models.ConditionExcellent,
	})
	assert.ErrorIs(t, err, ErrInvalidValue)

	err = s.AddCardInstance(ctx, &models.CardInstance{
		UserID: 9999, CardID: card.ID, Language: models.LanguageEnglish, Condition: models.ConditionExcellent,
	})
	assert.ErrorIs(t, err, ErrInvalidReference)

	assert.ErrorIs(t, s.DeleteCardInstance(ctx, 9999), ErrNotFound)

	err = s.CreateUser(ctx, &models.User{Username: "carol"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
}
