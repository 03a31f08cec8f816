package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// ReferenceRepository handles the seeded lookup tables: colors, formats and rarities.
type ReferenceRepository interface {
	// EnsureColor inserts the color if it is missing. Idempotent.
	EnsureColor(ctx context.Context, symbol models.ColorSymbol) error

	// EnsureFormat inserts the format if it is missing. Idempotent.
	EnsureFormat(ctx context.Context, name models.FormatName) error

	// EnsureRarity inserts the rarity if it is missing. Idempotent.
	EnsureRarity(ctx context.Context, symbol models.RaritySymbol) error

	// GetColor looks up a color by exact symbol.
	GetColor(ctx context.Context, symbol models.ColorSymbol) (*models.Color, error)

	// GetFormat looks up a format by name.
	GetFormat(ctx context.Context, name models.FormatName) (*models.Format, error)

	// GetRarity looks up a rarity by symbol.
	GetRarity(ctx context.Context, symbol models.RaritySymbol) (*models.Rarity, error)

	ListColors(ctx context.Context) ([]*models.Color, error)
	ListFormats(ctx context.Context) ([]*models.Format, error)
	ListRarities(ctx context.Context) ([]*models.Rarity, error)
}

type referenceRepository struct {
	db Querier
}

// NewReferenceRepository creates a new reference data repository.
func NewReferenceRepository(db Querier) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) EnsureColor(ctx context.Context, symbol models.ColorSymbol) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO colors (symbol) VALUES (?) ON CONFLICT(symbol) DO NOTHING`, string(symbol))
	return classifyWrite("ensure color", err)
}

func (r *referenceRepository) EnsureFormat(ctx context.Context, name models.FormatName) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO formats (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, string(name))
	return classifyWrite("ensure format", err)
}

func (r *referenceRepository) EnsureRarity(ctx context.Context, symbol models.RaritySymbol) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO rarities (symbol) VALUES (?) ON CONFLICT(symbol) DO NOTHING`, string(symbol))
	return classifyWrite("ensure rarity", err)
}

func (r *referenceRepository) GetColor(ctx context.Context, symbol models.ColorSymbol) (*models.Color, error) {
	var c models.Color
	var s string
	err := r.db.QueryRowContext(ctx, `SELECT id, symbol FROM colors WHERE symbol = ?`, string(symbol)).Scan(&c.ID, &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("color %q: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get color %q: %w", symbol, err)
	}
	c.Symbol = models.ColorSymbol(s)
	return &c, nil
}

func (r *referenceRepository) GetFormat(ctx context.Context, name models.FormatName) (*models.Format, error) {
	var f models.Format
	var s string
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM formats WHERE name = ?`, string(name)).Scan(&f.ID, &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("format %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get format %q: %w", name, err)
	}
	f.Name = models.FormatName(s)
	return &f, nil
}

func (r *referenceRepository) GetRarity(ctx context.Context, symbol models.RaritySymbol) (*models.Rarity, error) {
	var rr models.Rarity
	var s string
	err := r.db.QueryRowContext(ctx, `SELECT id, symbol FROM rarities WHERE symbol = ?`, string(symbol)).Scan(&rr.ID, &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rarity %q: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get rarity %q: %w", symbol, err)
	}
	rr.Symbol = models.RaritySymbol(s)
	return &rr, nil
}

func (r *referenceRepository) ListColors(ctx context.Context) ([]*models.Color, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, symbol FROM colors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var colors []*models.Color
	for rows.Next() {
		var c models.Color
		var s string
		if err := rows.Scan(&c.ID, &s); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		c.Symbol = models.ColorSymbol(s)
		colors = append(colors, &c)
	}
	return colors, rows.Err()
}

func (r *referenceRepository) ListFormats(ctx context.Context) ([]*models.Format, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM formats ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list formats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var formats []*models.Format
	for rows.Next() {
		var f models.Format
		var s string
		if err := rows.Scan(&f.ID, &s); err != nil {
			return nil, fmt.Errorf("scan format: %w", err)
		}
		f.Name = models.FormatName(s)
		formats = append(formats, &f)
	}
	return formats, rows.Err()
}

func (r *referenceRepository) ListRarities(ctx context.Context) ([]*models.Rarity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, symbol FROM rarities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rarities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rarities []*models.Rarity
	for rows.Next() {
		var rr models.Rarity
		var s string
		if err := rows.Scan(&rr.ID, &s); err != nil {
			return nil, fmt.Errorf("scan rarity: %w", err)
		}
		rr.Symbol = models.RaritySymbol(s)
		rarities = append(rarities, &rr)
	}
	return rarities, rows.Err()
}
