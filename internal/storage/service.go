package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
	"github.com/ramonehamilton/mtg-inventory/internal/storage/repository"
)

// Service provides high-level operations for storing and retrieving inventory data.
type Service struct {
	db        *DB
	editions  repository.EditionRepository
	reference repository.ReferenceRepository
	artists   repository.ArtistRepository
	cards     repository.CardRepository
	users     repository.UserRepository
	instances repository.CardInstanceRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:        db,
		editions:  repository.NewEditionRepository(db.Conn()),
		reference: repository.NewReferenceRepository(db.Conn()),
		artists:   repository.NewArtistRepository(db.Conn()),
		cards:     repository.NewCardRepository(db.Conn()),
		users:     repository.NewUserRepository(db.Conn()),
		instances: repository.NewCardInstanceRepository(db.Conn()),
	}
}

// SeedReferenceData inserts every color, format and rarity value that is
// not yet present. Safe to call on every start.
func (s *Service) SeedReferenceData(ctx context.Context) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		ref := repository.NewReferenceRepository(tx)
		for _, c := range models.AllColors() {
			if err := ref.EnsureColor(ctx, c); err != nil {
				return err
			}
		}
		for _, f := range models.AllFormats() {
			if err := ref.EnsureFormat(ctx, f); err != nil {
				return err
			}
		}
		for _, r := range models.AllRarities() {
			if err := ref.EnsureRarity(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// Editions

// CreateEdition inserts an edition. Code and full name must both be unique.
func (s *Service) CreateEdition(ctx context.Context, edition *models.Edition) error {
	return s.editions.Create(ctx, edition)
}

// GetEditionByCode retrieves an edition by its set code.
func (s *Service) GetEditionByCode(ctx context.Context, code string) (*models.Edition, error) {
	return s.editions.GetByCode(ctx, code)
}

// ListEditions returns all editions ordered by code.
func (s *Service) ListEditions(ctx context.Context) ([]*models.Edition, error) {
	return s.editions.List(ctx)
}

// UpdateEditionName renames an edition.
func (s *Service) UpdateEditionName(ctx context.Context, id int, fullName string) error {
	return s.editions.UpdateName(ctx, id, fullName)
}

// DeleteEdition removes an edition. Returns ErrProtected while it still has cards.
func (s *Service) DeleteEdition(ctx context.Context, id int) error {
	return s.editions.Delete(ctx, id)
}

// Reference data

func (s *Service) GetColor(ctx context.Context, symbol models.ColorSymbol) (*models.Color, error) {
	return s.reference.GetColor(ctx, symbol)
}

func (s *Service) GetFormat(ctx context.Context, name models.FormatName) (*models.Format, error) {
	return s.reference.GetFormat(ctx, name)
}

func (s *Service) GetRarity(ctx context.Context, symbol models.RaritySymbol) (*models.Rarity, error) {
	return s.reference.GetRarity(ctx, symbol)
}

func (s *Service) ListColors(ctx context.Context) ([]*models.Color, error) {
	return s.reference.ListColors(ctx)
}

func (s *Service) ListFormats(ctx context.Context) ([]*models.Format, error) {
	return s.reference.ListFormats(ctx)
}

func (s *Service) ListRarities(ctx context.Context) ([]*models.Rarity, error) {
	return s.reference.ListRarities(ctx)
}

// GetOrCreateArtist returns the artist with this exact name, creating it if needed.
func (s *Service) GetOrCreateArtist(ctx context.Context, name string) (*models.Artist, error) {
	return s.artists.GetOrCreate(ctx, name)
}

func (s *Service) ListArtists(ctx context.Context) ([]*models.Artist, error) {
	return s.artists.List(ctx)
}

// Cards

// CreateCard inserts a card. Returns ErrUniqueViolation when the edition
// already has a card with the same number.
func (s *Service) CreateCard(ctx context.Context, card *models.Card) error {
	return s.cards.Create(ctx, card)
}

func (s *Service) AttachColor(ctx context.Context, cardID, colorID int) error {
	return s.cards.AttachColor(ctx, cardID, colorID)
}

func (s *Service) AttachFormat(ctx context.Context, cardID, formatID int) error {
	return s.cards.AttachFormat(ctx, cardID, formatID)
}

// CardExists reports whether the edition already holds a card with this number.
func (s *Service) CardExists(ctx context.Context, editionID, number int) (bool, error) {
	return s.cards.Exists(ctx, editionID, number)
}

// CreateImportedCard creates a card and attaches its colors and formats
// atomically. Either all rows are written or none.
func (s *Service) CreateImportedCard(ctx context.Context, card *models.Card, colorIDs, formatIDs []int) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		cards := repository.NewCardRepository(tx)

		if err := cards.Create(ctx, card); err != nil {
			return err
		}
		for _, id := range colorIDs {
			if err := cards.AttachColor(ctx, card.ID, id); err != nil {
				return fmt.Errorf("card %d: %w", card.Number, err)
			}
		}
		for _, id := range formatIDs {
			if err := cards.AttachFormat(ctx, card.ID, id); err != nil {
				return fmt.Errorf("card %d: %w", card.Number, err)
			}
		}
		return nil
	})
}

// GetCard retrieves a card with its relations resolved.
func (s *Service) GetCard(ctx context.Context, id int) (*models.Card, error) {
	return s.cards.GetByID(ctx, id)
}

// ListCards returns one page of cards matching the filter and the total
// number of matches.
func (s *Service) ListCards(ctx context.Context, filter models.CardFilter) ([]*models.Card, int, error) {
	total, err := s.cards.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Card{}, 0, nil
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// CountEditionCards returns how many cards are stored for an edition.
func (s *Service) CountEditionCards(ctx context.Context, editionID int) (int, error) {
	return s.cards.CountByEdition(ctx, editionID)
}

// DeleteCard removes a card together with its owned instances.
func (s *Service) DeleteCard(ctx context.Context, id int) error {
	return s.cards.Delete(ctx, id)
}

// Users and owned copies

func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return s.users.Create(ctx, user)
}

func (s *Service) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes a user together with their owned instances.
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return s.users.Delete(ctx, id)
}

// AddCardInstance records an owned copy. Returns ErrInvalidReference when
// the user or card does not exist.
func (s *Service) AddCardInstance(ctx context.Context, instance *models.CardInstance) error {
	return s.instances.Create(ctx, instance)
}

func (s *Service) GetCardInstance(ctx context.Context, id int) (*models.CardInstance, error) {
	return s.instances.GetByID(ctx, id)
}

func (s *Service) ListCardInstances(ctx context.Context, userID int) ([]*models.CardInstance, error) {
	return s.instances.ListByUser(ctx, userID)
}

func (s *Service) CountCardInstances(ctx context.Context, cardID int) (int, error) {
	return s.instances.CountByCard(ctx, cardID)
}

func (s *Service) DeleteCardInstance(ctx context.Context, id int) error {
	return s.instances.Delete(ctx, id)
}

// Ping verifies the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.conn.PingContext(ctx)
}

// Backup writes a verified copy of the database into dir.
func (s *Service) Backup(ctx context.Context, dir string) (*BackupInfo, error) {
	return s.db.Backup(ctx, dir)
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}
