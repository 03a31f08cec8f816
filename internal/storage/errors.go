package storage

import "github.com/ramonehamilton/mtg-inventory/internal/storage/repository"

// Errors returned by Service operations. Match them with errors.Is.
var (
	ErrNotFound         = repository.ErrNotFound
	ErrUniqueViolation  = repository.ErrUniqueViolation
	ErrProtected        = repository.ErrProtected
	ErrInvalidReference = repository.ErrInvalidReference
	ErrInvalidValue     = repository.ErrInvalidValue
)
