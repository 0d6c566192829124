package migrations

import (
	"context"
	"testing"

	"contabil-site/internal/core"
)

func TestContactMigrations(t *testing.T) {
	db, err := core.OpenSQLite(":memory:", core.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	defer db.Close()

	manager := NewManager(db, core.NewDiscardLogger())

	ctx := context.Background()
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='contacts'").Scan(&count); err != nil {
		t.Fatalf("Failed to check contacts table: %v", err)
	}
	if count != 1 {
		t.Errorf("Table contacts was not created")
	}

	// Migrations are idempotent
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to re-apply migrations: %v", err)
	}

	if err := manager.Rollback(ctx); err != nil {
		t.Fatalf("Failed to rollback migration: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='contacts'").Scan(&count); err != nil {
		t.Fatalf("Failed to check contacts table: %v", err)
	}
	if count != 0 {
		t.Errorf("Table contacts still exists after rollback")
	}

	if err := manager.Rollback(ctx); err == nil {
		t.Errorf("Expected an error when nothing is left to roll back")
	}
}
