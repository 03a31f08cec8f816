package storage

import (
	"context"
	"path/filepath"
	"testing"
)

// NewTestService creates a migrated and seeded service backed by a temporary
// database file. Exported for use in other package tests.
func NewTestService(t testing.TB) *Service {
	t.Helper()

	config := DefaultConfig(filepath.Join(t.TempDir(), "test.db"))
	config.AutoMigrate = true

	db, err := Open(config)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	service := NewService(db)
	if err := service.SeedReferenceData(context.Background()); err != nil {
		t.Fatalf("Failed to seed reference data: %v", err)
	}

	return service
}
