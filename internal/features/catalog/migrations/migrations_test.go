package migrations

import (
	"context"
	"testing"

	"contabil-site/internal/core"
)

func TestCatalogMigrations(t *testing.T) {
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

	pending, err := manager.Pending(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending migrations: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending migrations, got %d", len(pending))
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_services_active_position'").Scan(&count); err != nil {
		t.Fatalf("Failed to check services index: %v", err)
	}
	if count != 1 {
		t.Errorf("Index idx_services_active_position was not created")
	}

	if err := manager.Rollback(ctx); err != nil {
		t.Fatalf("Failed to rollback migration: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='services'").Scan(&count); err != nil {
		t.Fatalf("Failed to check services table: %v", err)
	}
	if count != 0 {
		t.Errorf("Table services still exists after rollback")
	}
}
