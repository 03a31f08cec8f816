// Package inventory holds the operations the presentation layer calls:
// edition creation with its catalog import, card and reference reads, and
// the owned-copy collection.
package inventory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ramonehamilton/mtg-inventory/internal/cards/importer"
	"github.com/ramonehamilton/mtg-inventory/internal/storage"
	"github.com/ramonehamilton/mtg-inventory/internal/storage/models"
)

// EditionImporter imports an edition's card list. Implemented by *importer.Importer.
type EditionImporter interface {
	ImportEdition(ctx context.Context, edition *models.Edition) *importer.Report
}

// Services contains the shared dependencies of the inventory services.
type Services struct {
	// Storage service for database operations
	Storage *storage.Service

	// Importer runs once for every newly created edition
	Importer EditionImporter

	Logger *slog.Logger
}

func (s *Services) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// ErrInvalidInput marks caller mistakes detected before touching storage.
var ErrInvalidInput = errors.New("invalid input")

// AppError is a user-facing error that keeps the underlying cause for errors.Is/As.
type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

func invalid(message string) error {
	return &AppError{Message: message, Err: ErrInvalidInput}
}

// wrap attaches a user-facing message to a storage error.
func wrap(message string, err error) error {
	return &AppError{Message: message + ": " + err.Error(), Err: err}
}
