package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// ArtistRepository handles database operations for artists.
type ArtistRepository interface {
	// GetOrCreate returns the artist with the given name, creating it when absent.
	// Safe under concurrent imports: a lost insert race re-reads the winner's row.
	GetOrCreate(ctx context.Context, name string) (*models.Artist, error)

	// GetByName retrieves an artist by exact name.
	GetByName(ctx context.Context, name string) (*models.Artist, error)

	// List returns all artists ordered by name.
	List(ctx context.Context) ([]*models.Artist, error)
}

type artistRepository struct {
	db Querier
}

// NewArtistRepository creates a new artist repository.
func NewArtistRepository(db Querier) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) GetOrCreate(ctx context.Context, name string) (*models.Artist, error) {
	artist, err := r.GetByName(ctx, name)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// A concurrent import may insert the same name between the read and the
	// write; DO NOTHING leaves its row in place and the re-read returns it.
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO artists (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name,
	); err != nil {
		return nil, classifyWrite("create artist", err)
	}

	return r.GetByName(ctx, name)
}

func (r *artistRepository) GetByName(ctx context.Context, name string) (*models.Artist, error) {
	var a models.Artist
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM artists WHERE name = ?`, name).Scan(&a.ID, &a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artist %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artist %q: %w", name, err)
	}
	return &a, nil
}

func (r *artistRepository) List(ctx context.Context) ([]*models.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var artists []*models.Artist
	for rows.Next() {
		var a models.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, &a)
	}
	return artists, rows.Err()
}
