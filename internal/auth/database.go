package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"contabil-site/internal/core"
)

// Common errors
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

const userColumns = `users.id, users.created_at, users.name, users.email, users.password_hash, users.activated`

// UserModel handles database operations for users
type UserModel struct {
	db     *core.Database
	logger *core.Logger
}

// NewUserModel creates a new user model
func NewUserModel(db *core.Database, logger *core.Logger) *UserModel {
	return &UserModel{
		db:     db,
		logger: logger,
	}
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&user.Password.hash,
		&user.Activated,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// Insert creates a new user
func (m *UserModel) Insert(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, activated, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`

	user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	args := []any{user.Name, user.Email, user.Password.hash, user.Activated, user.CreatedAt}

	err := m.db.QueryRowWithTimeout(ctx, query, args...).Scan(&user.ID)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "UNIQUE constraint failed: users.email"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

// GetByEmail retrieves a user by email, ignoring case
func (m *UserModel) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`
	return scanUser(m.db.QueryRowWithTimeout(ctx, query, email))
}

// GetByID retrieves a user by id
func (m *UserModel) GetByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(m.db.QueryRowWithTimeout(ctx, query, id))
}

// GetForToken retrieves the owner of an unexpired token
func (m *UserModel) GetForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		INNER JOIN tokens
		ON users.id = tokens.user_id
		WHERE tokens.hash = ? AND tokens.scope = ? AND tokens.expiry > ?
	`

	args := []any{hashToken(tokenPlaintext), tokenScope, time.Now().UTC()}
	return scanUser(m.db.QueryRowWithTimeout(ctx, query, args...))
}

// List returns all users ordered by creation
func (m *UserModel) List(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY users.id`

	rows, err := m.db.QueryWithTimeout(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update updates a user
func (m *UserModel) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = ?, email = ?, password_hash = ?, activated = ?
		WHERE id = ?
	`

	args := []any{user.Name, user.Email, user.Password.hash, user.Activated, user.ID}

	result, err := m.db.ExecWithTimeout(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// Delete removes a user with its tokens and permission grants
func (m *UserModel) Delete(ctx context.Context, id int) error {
	return m.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users_permissions WHERE user_id = ?`, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// Count returns the number of users
func (m *UserModel) Count(ctx context.Context) (int, error) {
	var count int
	err := m.db.QueryRowWithTimeout(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// TokenModel handles database operations for tokens
type TokenModel struct {
	db     *core.Database
	logger *core.Logger
}

// NewTokenModel creates a new token model
func NewTokenModel(db *core.Database, logger *core.Logger) *TokenModel {
	return &TokenModel{
		db:     db,
		logger: logger,
	}
}

// New creates and stores a new token
func (m *TokenModel) New(ctx context.Context, userID int, ttl time.Duration, scope string) (*Token, error) {
	token, err := generateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}

	err = m.Insert(ctx, token)
	return token, err
}

// Insert stores a token in the database
func (m *TokenModel) Insert(ctx context.Context, token *Token) error {
	query := `
		INSERT INTO tokens (hash, user_id, expiry, scope)
		VALUES (?, ?, ?, ?)
	`

	args := []any{token.Hash, token.UserID, token.Expiry.UTC(), token.Scope}

	_, err := m.db.ExecWithTimeout(ctx, query, args...)
	return err
}

// DeleteAllForUser deletes all tokens for a user and scope
func (m *TokenModel) DeleteAllForUser(ctx context.Context, scope string, userID int) error {
	query := `
		DELETE FROM tokens
		WHERE scope = ? AND user_id = ?
	`

	_, err := m.db.ExecWithTimeout(ctx, query, scope, userID)
	return err
}

// DeleteExpired removes tokens past their expiry
func (m *TokenModel) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := m.db.ExecWithTimeout(ctx, `DELETE FROM tokens WHERE expiry <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// PermissionModel handles database operations for permissions
type PermissionModel struct {
	db     *core.Database
	logger *core.Logger
}

// NewPermissionModel creates a new permission model
func NewPermissionModel(db *core.Database, logger *core.Logger) *PermissionModel {
	return &PermissionModel{
		db:     db,
		logger: logger,
	}
}

// GetAllForUser retrieves all permissions for a user
func (m *PermissionModel) GetAllForUser(ctx context.Context, userID int) (Permissions, error) {
	query := `
		SELECT permissions.code
		FROM permissions
		INNER JOIN users_permissions ON users_permissions.permission_id = permissions.id
		WHERE users_permissions.user_id = ?
	`

	rows, err := m.db.QueryWithTimeout(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions Permissions

	for rows.Next() {
		var permission string
		if err := rows.Scan(&permission); err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return permissions, nil
}

// AddForUser grants permission codes to a user
func (m *PermissionModel) AddForUser(ctx context.Context, userID int, codes ...string) error {
	query := `
		INSERT OR IGNORE INTO users_permissions
		SELECT ?, permissions.id FROM permissions WHERE permissions.code = ?
	`

	for _, code := range codes {
		if _, err := m.db.ExecWithTimeout(ctx, query, userID, code); err != nil {
			return err
		}
	}

	return nil
}
