package migrations

import (
	"contabil-site/internal/core"
)

// Migration301CreateServices creates the services catalog table
var Migration301CreateServices = core.Migration{
	Version:     301,
	Name:        "create_services",
	Description: "Services catalog shown on the site",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS services (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			summary TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_services_active_position ON services(active, position);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_services_active_position;
		DROP TABLE IF EXISTS services;
	`,
}

// NewManager creates the migration manager of the catalog feature
func NewManager(db *core.Database, logger *core.Logger) *core.MigrationManager {
	return core.NewMigrationManager(db, logger, "catalog", Migration301CreateServices)
}
