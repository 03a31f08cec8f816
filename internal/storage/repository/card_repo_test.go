package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(models.CardFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildWhere(models.CardFilter{
		EditionCode: "DOM",
		Rarity:      models.RarityRare,
		NameQuery:   "Karn",
	})
	assert.Contains(t, where, "e.code = ?")
	assert.Contains(t, where, "r.symbol = ?")
	assert.Contains(t, where, "c.name LIKE ?")
	assert.Equal(t, []any{"DOM", "R", "%Karn%"}, args)

	where, args = buildWhere(models.CardFilter{Color: models.ColorBlue, Format: models.FormatLegacy})
	assert.Contains(t, where, "co.symbol = ?")
	assert.Contains(t, where, "f.name = ?")
	assert.Equal(t, []any{"U", "Legacy"}, args)
}

func TestCardRepository_CreatePassesNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cmc := 4
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cards`)).
		WithArgs(12, 1, "Teferi, Hero of Dominaria", "Legendary Planeswalker — Teferi",
			nil, cmc, "3WU", nil, nil, 4, nil, 7, nil).
		WillReturnResult(sqlmock.NewResult(99, 1))

	loyalty := 4
	mana := "3WU"
	card := &models.Card{
		Number:    12,
		EditionID: 1,
		Name:      "Teferi, Hero of Dominaria",
		TypeLine:  "Legendary Planeswalker — Teferi",
		CMC:       cmc,
		ManaCost:  &mana,
		Loyalty:   &loyalty,
		ArtistID:  7,
	}
	require.NoError(t, NewCardRepository(db).Create(context.Background(), card))
	assert.Equal(t, 99, card.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardRepository_DeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cards WHERE id = ?`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewCardRepository(db).Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
