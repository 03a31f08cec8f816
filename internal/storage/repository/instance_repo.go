package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// CardInstanceRepository handles owned physical copies of cards.
type CardInstanceRepository interface {
	// Create records an owned copy and sets its ID.
	Create(ctx context.Context, instance *models.CardInstance) error

	// GetByID retrieves a single owned copy.
	GetByID(ctx context.Context, id int) (*models.CardInstance, error)

	// ListByUser returns a user's copies ordered by edition code, number and ID.
	ListByUser(ctx context.Context, userID int) ([]*models.CardInstance, error)

	// CountByCard returns how many copies of a card are recorded across all users.
	CountByCard(ctx context.Context, cardID int) (int, error)

	// Delete removes an owned copy.
	Delete(ctx context.Context, id int) error
}

type cardInstanceRepository struct {
	db Querier
}

// NewCardInstanceRepository creates a new card instance repository.
func NewCardInstanceRepository(db Querier) CardInstanceRepository {
	return &cardInstanceRepository{db: db}
}

func (r *cardInstanceRepository) Create(ctx context.Context, instance *models.CardInstance) error {
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO card_instances (user_id, card_id, language, state, commentary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		instance.UserID,
		instance.CardID,
		string(instance.Language),
		string(instance.Condition),
		stringArg(instance.Commentary),
		instance.CreatedAt,
	)
	if err != nil {
		return classifyWrite("create card instance", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create card instance: %w", err)
	}
	instance.ID = int(id)

	return nil
}

const instanceSelect = `
	SELECT ci.id, ci.user_id, ci.card_id, ci.language, ci.state, ci.commentary,
		ci.created_at, c.name, e.code, c.number
	FROM card_instances ci
	JOIN cards c ON c.id = ci.card_id
	JOIN editions e ON e.id = c.edition_id
`

func scanInstance(scanner interface{ Scan(...any) error }) (*models.CardInstance, error) {
	var (
		ci         models.CardInstance
		language   string
		state      string
		commentary sql.NullString
	)
	err := scanner.Scan(
		&ci.ID, &ci.UserID, &ci.CardID, &language, &state, &commentary,
		&ci.CreatedAt, &ci.CardName, &ci.EditionCode, &ci.CardNumber,
	)
	if err != nil {
		return nil, err
	}
	ci.Language = models.Language(language)
	ci.Condition = models.Condition(state)
	ci.Commentary = nullStringPtr(commentary)
	return &ci, nil
}

func (r *cardInstanceRepository) GetByID(ctx context.Context, id int) (*models.CardInstance, error) {
	ci, err := scanInstance(r.db.QueryRowContext(ctx, instanceSelect+` WHERE ci.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card instance %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get card instance %d: %w", id, err)
	}
	return ci, nil
}

func (r *cardInstanceRepository) ListByUser(ctx context.Context, userID int) ([]*models.CardInstance, error) {
	rows, err := r.db.QueryContext(ctx,
		instanceSelect+` WHERE ci.user_id = ? ORDER BY e.code, c.number, ci.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list card instances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var instances []*models.CardInstance
	for rows.Next() {
		ci, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card instance: %w", err)
		}
		instances = append(instances, ci)
	}
	return instances, rows.Err()
}

func (r *cardInstanceRepository) CountByCard(ctx context.Context, cardID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM card_instances WHERE card_id = ?`, cardID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count card instances: %w", err)
	}
	return count, nil
}

func (r *cardInstanceRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM card_instances WHERE id = ?`, id)
	if err != nil {
		return classifyDelete("delete card instance", err)
	}
	return requireAffected("delete card instance", result)
}
