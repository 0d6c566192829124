package auth

import "contabil-site/internal/core"

// Migrations returns the schema of the auth tables. Versions 100-199.
func Migrations() []core.Migration {
	return []core.Migration{
		{
			Version:     101,
			Name:        "create_users",
			Description: "Admin panel users",
			UpSQL: `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash BLOB NOT NULL,
	activated BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`,
			DownSQL: `DROP TABLE IF EXISTS users;`,
		},
		{
			Version:     102,
			Name:        "create_tokens",
			Description: "Hashed session tokens",
			UpSQL: `
CREATE TABLE IF NOT EXISTS tokens (
	hash BLOB PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users (id),
	expiry DATETIME NOT NULL,
	scope TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tokens_user ON tokens (user_id, scope);`,
			DownSQL: `DROP INDEX IF EXISTS idx_tokens_user; DROP TABLE IF EXISTS tokens;`,
		},
		{
			Version:     103,
			Name:        "create_permissions",
			Description: "Permission codes and grants",
			UpSQL: `
CREATE TABLE IF NOT EXISTS permissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS users_permissions (
	user_id INTEGER NOT NULL REFERENCES users (id),
	permission_id INTEGER NOT NULL REFERENCES permissions (id),
	PRIMARY KEY (user_id, permission_id)
);
INSERT OR IGNORE INTO permissions (code) VALUES ('admin:all');`,
			DownSQL: `DROP TABLE IF EXISTS users_permissions; DROP TABLE IF EXISTS permissions;`,
		},
	}
}

// NewMigrationManager returns the manager for the auth schema
func NewMigrationManager(db *core.Database, logger *core.Logger) *core.MigrationManager {
	return core.NewMigrationManager(db, logger, "auth", Migrations()...)
}
