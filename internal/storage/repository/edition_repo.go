package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// EditionRepository handles database operations for editions.
type EditionRepository interface {
	// Create inserts a new edition and sets its ID.
	Create(ctx context.Context, edition *models.Edition) error

	// GetByID retrieves an edition by ID.
	GetByID(ctx context.Context, id int) (*models.Edition, error)

	// GetByCode retrieves an edition by its set code.
	GetByCode(ctx context.Context, code string) (*models.Edition, error)

	// List returns all editions ordered by code.
	List(ctx context.Context) ([]*models.Edition, error)

	// UpdateName changes the display name of an edition.
	UpdateName(ctx context.Context, id int, fullName string) error

	// Delete removes an edition. Fails with ErrProtected while cards reference it.
	Delete(ctx context.Context, id int) error
}

type editionRepository struct {
	db Querier
}

// NewEditionRepository creates a new edition repository.
func NewEditionRepository(db Querier) EditionRepository {
	return &editionRepository{db: db}
}

func (r *editionRepository) Create(ctx context.Context, edition *models.Edition) error {
	if edition.CreatedAt.IsZero() {
		edition.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO editions (code, full_name, created_at) VALUES (?, ?, ?)`,
		edition.Code, edition.FullName, edition.CreatedAt,
	)
	if err != nil {
		return classifyWrite("create edition", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create edition: %w", err)
	}
	edition.ID = int(id)

	return nil
}

func (r *editionRepository) GetByID(ctx context.Context, id int) (*models.Edition, error) {
	return r.getOne(ctx, `SELECT id, code, full_name, created_at FROM editions WHERE id = ?`, id)
}

func (r *editionRepository) GetByCode(ctx context.Context, code string) (*models.Edition, error) {
	return r.getOne(ctx, `SELECT id, code, full_name, created_at FROM editions WHERE code = ?`, code)
}

func (r *editionRepository) getOne(ctx context.Context, query string, arg any) (*models.Edition, error) {
	var e models.Edition
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&e.ID, &e.Code, &e.FullName, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("edition %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get edition %v: %w", arg, err)
	}
	return &e, nil
}

func (r *editionRepository) List(ctx context.Context) ([]*models.Edition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, full_name, created_at FROM editions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list editions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var editions []*models.Edition
	for rows.Next() {
		var e models.Edition
		if err := rows.Scan(&e.ID, &e.Code, &e.FullName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan edition: %w", err)
		}
		editions = append(editions, &e)
	}
	return editions, rows.Err()
}

func (r *editionRepository) UpdateName(ctx context.Context, id int, fullName string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE editions SET full_name = ? WHERE id = ?`, fullName, id)
	if err != nil {
		return classifyWrite("update edition", err)
	}
	return requireAffected("update edition", result)
}

func (r *editionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM editions WHERE id = ?`, id)
	if err != nil {
		return classifyDelete("delete edition", err)
	}
	return requireAffected("delete edition", result)
}
