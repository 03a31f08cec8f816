package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// CardRepository handles database operations for cards and their
// color/format relations.
type CardRepository interface {
	// Create inserts a card and sets its ID.
	// Fails with ErrUniqueViolation if (number, edition) already exists.
	Create(ctx context.Context, card *models.Card) error

	// Exists reports whether the edition already has a card with this number.
	Exists(ctx context.Context, editionID, number int) (bool, error)

	// AttachColor links a card to a color. Attaching twice is a no-op.
	AttachColor(ctx context.Context, cardID, colorID int) error

	// AttachFormat links a card to a format it is legal in. Attaching twice is a no-op.
	AttachFormat(ctx context.Context, cardID, formatID int) error

	// GetByID retrieves a card with its edition, artist, rarity, colors and formats resolved.
	GetByID(ctx context.Context, id int) (*models.Card, error)

	// List returns cards matching the filter ordered by edition code then number.
	List(ctx context.Context, filter models.CardFilter) ([]*models.Card, error)

	// Count returns the number of cards matching the filter, ignoring Limit/Offset.
	Count(ctx context.Context, filter models.CardFilter) (int, error)

	// CountByEdition returns how many cards an edition has.
	CountByEdition(ctx context.Context, editionID int) (int, error)

	// Delete removes a card; owned instances and relations cascade.
	Delete(ctx context.Context, id int) error
}

type cardRepository struct {
	db Querier
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db Querier) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (
			number, edition_id, name, type_line, rarity_id, cmc, mana_cost,
			power, toughness, loyalty, image_url, artist_id, oracle_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		card.Number,
		card.EditionID,
		card.Name,
		card.TypeLine,
		intArg(card.RarityID),
		card.CMC,
		stringArg(card.ManaCost),
		intArg(card.Power),
		intArg(card.Toughness),
		intArg(card.Loyalty),
		stringArg(card.ImageURL),
		card.ArtistID,
		stringArg(card.OracleText),
	)
	if err != nil {
		return classifyWrite(fmt.Sprintf("create card %d", card.Number), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create card %d: %w", card.Number, err)
	}
	card.ID = int(id)

	return nil
}

func (r *cardRepository) Exists(ctx context.Context, editionID, number int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM cards WHERE edition_id = ? AND number = ?)`,
		editionID, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check card %d exists: %w", number, err)
	}
	return exists, nil
}

func (r *cardRepository) AttachColor(ctx context.Context, cardID, colorID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO card_colors (card_id, color_id) VALUES (?, ?) ON CONFLICT(card_id, color_id) DO NOTHING`,
		cardID, colorID,
	)
	return classifyWrite("attach color", err)
}

func (r *cardRepository) AttachFormat(ctx context.Context, cardID, formatID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO card_formats (card_id, format_id) VALUES (?, ?) ON CONFLICT(card_id, format_id) DO NOTHING`,
		cardID, formatID,
	)
	return classifyWrite("attach format", err)
}

const cardSelect = `
	SELECT c.id, c.number, c.edition_id, e.code, c.name, c.type_line,
		c.rarity_id, r.symbol, c.cmc, c.mana_cost, c.power, c.toughness,
		c.loyalty, c.image_url, c.artist_id, a.name, c.oracle_text
	FROM cards c
	JOIN editions e ON e.id = c.edition_id
	JOIN artists a ON a.id = c.artist_id
	LEFT JOIN rarities r ON r.id = c.rarity_id
`

func scanCard(scanner interface{ Scan(...any) error }) (*models.Card, error) {
	var (
		c          models.Card
		rarityID   sql.NullInt64
		rarity     sql.NullString
		manaCost   sql.NullString
		power      sql.NullInt64
		toughness  sql.NullInt64
		loyalty    sql.NullInt64
		imageURL   sql.NullString
		oracleText sql.NullString
	)
	err := scanner.Scan(
		&c.ID, &c.Number, &c.EditionID, &c.EditionCode, &c.Name, &c.TypeLine,
		&rarityID, &rarity, &c.CMC, &manaCost, &power, &toughness,
		&loyalty, &imageURL, &c.ArtistID, &c.ArtistName, &oracleText,
	)
	if err != nil {
		return nil, err
	}

	c.RarityID = nullIntPtr(rarityID)
	if rarity.Valid {
		symbol := models.RaritySymbol(rarity.String)
		c.Rarity = &symbol
	}
	c.ManaCost = nullStringPtr(manaCost)
	c.Power = nullIntPtr(power)
	c.Toughness = nullIntPtr(toughness)
	c.Loyalty = nullIntPtr(loyalty)
	c.ImageURL = nullStringPtr(imageURL)
	c.OracleText = nullStringPtr(oracleText)

	return &c, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id int) (*models.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, cardSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}

	if err := r.loadRelations(ctx, []*models.Card{card}); err != nil {
		return nil, err
	}
	return card, nil
}

// buildWhere translates a filter into a WHERE clause and its arguments.
func buildWhere(filter models.CardFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.EditionCode != "" {
		clauses = append(clauses, "e.code = ?")
		args = append(args, filter.EditionCode)
	}
	if filter.Rarity != "" {
		clauses = append(clauses, "r.symbol = ?")
		args = append(args, string(filter.Rarity))
	}
	if filter.Color != "" {
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM card_colors cc JOIN colors co ON co.id = cc.color_id
			WHERE cc.card_id = c.id AND co.symbol = ?)`)
		args = append(args, string(filter.Color))
	}
	if filter.Format != "" {
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM card_formats cf JOIN formats f ON f.id = cf.format_id
			WHERE cf.card_id = c.id AND f.name = ?)`)
		args = append(args, string(filter.Format))
	}
	if filter.NameQuery != "" {
		clauses = append(clauses, "c.name LIKE ?")
		args = append(args, "%"+filter.NameQuery+"%")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]*models.Card, error) {
	where, args := buildWhere(filter)
	query := cardSelect + where + ` ORDER BY e.code, c.number`

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	// Release the cursor before issuing the relation queries; a single
	// connection pool cannot serve both at once.
	_ = rows.Close()

	if err := r.loadRelations(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepository) Count(ctx context.Context, filter models.CardFilter) (int, error) {
	where, args := buildWhere(filter)
	query := `
		SELECT COUNT(*)
		FROM cards c
		JOIN editions e ON e.id = c.edition_id
		LEFT JOIN rarities r ON r.id = c.rarity_id
	` + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}

func (r *cardRepository) CountByEdition(ctx context.Context, editionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE edition_id = ?`, editionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cards for edition %d: %w", editionID, err)
	}
	return count, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return classifyDelete("delete card", err)
	}
	return requireAffected("delete card", result)
}

// loadRelations fills Colors and Formats for the given cards with two batched queries.
func (r *cardRepository) loadRelations(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	byID := make(map[int]*models.Card, len(cards))
	placeholders := make([]string, 0, len(cards))
	args := make([]any, 0, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
		placeholders = append(placeholders, "?")
		args = append(args, c.ID)
	}
	in := strings.Join(placeholders, ", ")

	colorRows, err := r.db.QueryContext(ctx, `
		SELECT cc.card_id, co.symbol FROM card_colors cc
		JOIN colors co ON co.id = cc.color_id
		WHERE cc.card_id IN (`+in+`)
		ORDER BY cc.card_id, co.id`, args...)
	if err != nil {
		return fmt.Errorf("load card colors: %w", err)
	}
	for colorRows.Next() {
		var cardID int
		var symbol string
		if err := colorRows.Scan(&cardID, &symbol); err != nil {
			_ = colorRows.Close()
			return fmt.Errorf("scan card color: %w", err)
		}
		byID[cardID].Colors = append(byID[cardID].Colors, models.ColorSymbol(symbol))
	}
	if err := colorRows.Err(); err != nil {
		_ = colorRows.Close()
		return fmt.Errorf("iterate card colors: %w", err)
	}
	_ = colorRows.Close()

	formatRows, err := r.db.QueryContext(ctx, `
		SELECT cf.card_id, f.name FROM card_formats cf
		JOIN formats f ON f.id = cf.format_id
		WHERE cf.card_id IN (`+in+`)
		ORDER BY cf.card_id, f.id`, args...)
	if err != nil {
		return fmt.Errorf("load card formats: %w", err)
	}
	defer func() { _ = formatRows.Close() }()
	for formatRows.Next() {
		var cardID int
		var name string
		if err := formatRows.Scan(&cardID, &name); err != nil {
			return fmt.Errorf("scan card format: %w", err)
		}
		byID[cardID].Formats = append(byID[cardID].Formats, models.FormatName(name))
	}
	return formatRows.Err()
}
