package inventory

import (
	"context"
	"strings"

	"github.com/ramonehamilton/mtg-inventory/internal/cards/importer"
	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// EditionService manages editions. Creating an edition runs the catalog
// import for it; no other operation does.
type EditionService struct {
	services *Services
}

// NewEditionService creates a new EditionService with the given services.
func NewEditionService(services *Services) *EditionService {
	return &EditionService{services: services}
}

// CreateEditionResult is the created edition plus the outcome of its import.
type CreateEditionResult struct {
	Edition *EditionView     `json:"edition"`
	Import  *importer.Report `json:"import"`
}

// CreateEdition stores a new edition and then imports its cards.
// The edition row is committed before the import starts, and an import
// that aborts or partially fails does not fail the creation.
func (s *EditionService) CreateEdition(ctx context.Context, code, fullName string) (*CreateEditionResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	fullName = strings.TrimSpace(fullName)
	if code == "" {
		return nil, invalid("edition code is required")
	}
	if fullName == "" {
		return nil, invalid("edition full name is required")
	}

	edition := &models.Edition{Code: code, FullName: fullName}
	if err := s.services.Storage.CreateEdition(ctx, edition); err != nil {
		return nil, wrap("failed to create edition", err)
	}

	s.services.logger().Info("edition created", "component", "inventory", "edition", edition.Code)

	// The edition row is committed, so the import must run to completion
	// even if the caller goes away or the request deadline passes.
	importCtx := context.WithoutCancel(ctx)

	result := &CreateEditionResult{}
	if s.services.Importer != nil {
		result.Import = s.services.Importer.ImportEdition(importCtx, edition)
	}

	count, err := s.services.Storage.CountEditionCards(importCtx, edition.ID)
	if err != nil {
		// The edition exists; report it without a count rather than fail.
		s.services.logger().Warn("failed to count edition cards",
			"component", "inventory", "edition", edition.Code, "error", err)
	}
	result.Edition = newEditionView(edition, count)

	return result, nil
}

// GetEdition returns the edition with the given code.
func (s *EditionService) GetEdition(ctx context.Context, code string) (*EditionView, error) {
	edition, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	count, err := s.services.Storage.CountEditionCards(ctx, edition.ID)
	if err != nil {
		return nil, wrap("failed to count edition cards", err)
	}
	return newEditionView(edition, count), nil
}

// ListEditions returns all editions ordered by code.
func (s *EditionService) ListEditions(ctx context.Context) ([]*EditionView, error) {
	editions, err := s.services.Storage.ListEditions(ctx)
	if err != nil {
		return nil, wrap("failed to list editions", err)
	}

	views := make([]*EditionView, 0, len(editions))
	for _, e := range editions {
		count, err := s.services.Storage.CountEditionCards(ctx, e.ID)
		if err != nil {
			return nil, wrap("failed to count edition cards", err)
		}
		views = append(views, newEditionView(e, count))
	}
	return views, nil
}

// RenameEdition changes an edition's full name. It never re-imports.
func (s *EditionService) RenameEdition(ctx context.Context, code, fullName string) (*EditionView, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, invalid("edition full name is required")
	}

	edition, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.services.Storage.UpdateEditionName(ctx, edition.ID, fullName); err != nil {
		return nil, wrap("failed to rename edition", err)
	}
	edition.FullName = fullName

	count, err := s.services.Storage.CountEditionCards(ctx, edition.ID)
	if err != nil {
		return nil, wrap("failed to count edition cards", err)
	}
	return newEditionView(edition, count), nil
}

// DeleteEdition removes an edition. Editions that still own cards are
// protected and yield an error matching storage.ErrProtected.
func (s *EditionService) DeleteEdition(ctx context.Context, code string) error {
	edition, err := s.lookup(ctx, code)
	if err != nil {
		return err
	}
	if err := s.services.Storage.DeleteEdition(ctx, edition.ID); err != nil {
		return wrap("failed to delete edition", err)
	}
	return nil
}

func (s *EditionService) lookup(ctx context.Context, code string) (*models.Edition, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalid("edition code is required")
	}
	edition, err := s.services.Storage.GetEditionByCode(ctx, code)
	if err != nil {
		return nil, wrap("edition "+code, err)
	}
	return edition, nil
}
