package migrations

import (
	"contabil-site/internal/core"
)

// Migration201CreateContacts creates the contact submissions table
var Migration201CreateContacts = core.Migration{
	Version:     201,
	Name:        "create_contacts",
	Description: "Contact form submissions",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS contacts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			service TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status);
		CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts(created_at);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_contacts_created_at;
		DROP INDEX IF EXISTS idx_contacts_status;
		DROP TABLE IF EXISTS contacts;
	`,
}

// NewManager creates the migration manager of the contact feature
func NewManager(db *core.Database, logger *core.Logger) *core.MigrationManager {
	return core.NewMigrationManager(db, logger, "contact", Migration201CreateContacts)
}
