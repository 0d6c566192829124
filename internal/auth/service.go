package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"contabil-site/internal/core"
)

// Service provides authentication and user management
type Service struct {
	users       *UserModel
	tokens      *TokenModel
	permissions *PermissionModel
	logger      *core.Logger
}

// NewService creates a new authentication service
func NewService(db *core.Database, logger *core.Logger) *Service {
	return &Service{
		users:       NewUserModel(db, logger),
		tokens:      NewTokenModel(db, logger),
		permissions: NewPermissionModel(db, logger),
		logger:      logger,
	}
}

// Common authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotActivated   = errors.New("user not activated")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrCannotDeleteSelf   = errors.New("users cannot delete their own account")
)

// MinPasswordLength is enforced when creating users
const MinPasswordLength = 8

// AuthenticateUser authenticates a user with email and password
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}

	if !user.Activated {
		return nil, ErrUserNotActivated
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, err
	}

	if !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// CreateAuthenticationToken replaces the user's login tokens with a new one
func (s *Service) CreateAuthenticationToken(ctx context.Context, user *User) (*Token, error) {
	if err := s.tokens.DeleteAllForUser(ctx, ScopeAuthentication, user.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.New(ctx, user.ID, TokenTTL, ScopeAuthentication)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created authentication token", "user_id", user.ID)
	return token, nil
}

// ValidateToken returns the owner of an authentication token
func (s *Service) ValidateToken(ctx context.Context, tokenPlaintext string) (*User, error) {
	user, err := s.users.GetForToken(ctx, ScopeAuthentication, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return user, nil
}

// GetUserPermissions retrieves all permissions for a user
func (s *Service) GetUserPermissions(ctx context.Context, userID int) (Permissions, error) {
	return s.permissions.GetAllForUser(ctx, userID)
}

// UserHasPermission checks if a user has a specific permission
func (s *Service) UserHasPermission(ctx context.Context, userID int, permissionCode string) (bool, error) {
	permissions, err := s.permissions.GetAllForUser(ctx, userID)
	if err != nil {
		return false, err
	}

	return permissions.Include(permissionCode), nil
}

// CreateUser creates an activated admin user
func (s *Service) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, core.NewValidationError("name is required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, core.NewValidationError("a valid email is required", err)
	}
	if len(password) < MinPasswordLength {
		return nil, core.NewValidationError("password must have at least 8 characters", nil)
	}

	user := &User{
		Name:      name,
		Email:     email,
		Activated: true,
	}

	if err := user.Password.Set(password); err != nil {
		return nil, err
	}

	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}

	if err := s.permissions.AddForUser(ctx, user.ID, PermissionAdmin); err != nil {
		return nil, err
	}

	s.logger.Info("Created user", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Debug("Admin user already exists", "email", email)
		return nil
	case !errors.Is(err, ErrRecordNotFound):
		return err
	}

	_, err = s.CreateUser(ctx, name, email, password)
	return err
}

// ListUsers returns every user
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes user id on behalf of actor
func (s *Service) DeleteUser(ctx context.Context, actor *User, id int) error {
	if actor.ID == id {
		return ErrCannotDeleteSelf
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted user", "user_id", id, "deleted_by", actor.ID)
	return nil
}

// LogoutUser invalidates all authentication tokens for a user
func (s *Service) LogoutUser(ctx context.Context, userID int) error {
	if err := s.tokens.DeleteAllForUser(ctx, ScopeAuthentication, userID); err != nil {
		return err
	}

	s.logger.Info("User logged out", "user_id", userID)
	return nil
}

// PurgeExpiredTokens deletes expired tokens and returns how many were removed
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx)
}
