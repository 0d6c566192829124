package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contabil-site/internal/core"
	"contabil-site/internal/features/catalog/models"
	"contabil-site/internal/slug"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrDuplicateSlug   = errors.New("a service with this slug already exists")
	ErrEmptySlug       = errors.New("service name must contain letters or digits")
)

// CatalogService manages the services catalog
type CatalogService struct {
	db     *core.Database
	logger *core.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *core.Database, logger *core.Logger) *CatalogService {
	return &CatalogService{
		db:     db,
		logger: logger,
	}
}

const serviceColumns = `id, name, slug, summary, description, icon, position, active, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (*models.Service, error) {
	var service models.Service
	err := row.Scan(
		&service.ID,
		&service.Name,
		&service.Slug,
		&service.Summary,
		&service.Description,
		&service.Icon,
		&service.Position,
		&service.Active,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func isUniqueSlugViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: services.slug")
}

// Create adds a service. The slug is derived from the name.
func (s *CatalogService) Create(ctx context.Context, in models.ServiceCreate) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, core.NewValidationError("name is required", nil).WithDetails(map[string]string{"name": "name is required"})
	}

	serviceSlug := slug.Slugify(name)
	if serviceSlug == "" {
		return nil, ErrEmptySlug
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := time.Now().UTC()
	service := &models.Service{
		Name:        name,
		Slug:        serviceSlug,
		Summary:     strings.TrimSpace(in.Summary),
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		Position:    in.Position,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO services (name, slug, summary, description, icon, position, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	err := s.db.QueryRowWithTimeout(ctx, query,
		service.Name,
		service.Slug,
		service.Summary,
		service.Description,
		service.Icon,
		service.Position,
		service.Active,
		service.CreatedAt,
		service.UpdatedAt,
	).Scan(&service.ID)
	if err != nil {
		if isUniqueSlugViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.logger.Info("Created service", "id", service.ID, "slug", service.Slug)
	return service, nil
}

// Get returns a service by id
func (s *CatalogService) Get(ctx context.Context, id int) (*models.Service, error) {
	return scanService(s.db.QueryRowWithTimeout(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id))
}

// GetBySlug returns a service by slug
func (s *CatalogService) GetBySlug(ctx context.Context, serviceSlug string) (*models.Service, error) {
	return scanService(s.db.QueryRowWithTimeout(ctx, `SELECT `+serviceColumns+` FROM services WHERE slug = ?`, serviceSlug))
}

// List returns services ordered by position; activeOnly hides inactive ones
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY position, id`

	rows, err := s.db.QueryWithTimeout(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := []*models.Service{}
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, service)
	}

	return services, rows.Err()
}

// Update applies the non-nil fields of in. Renaming recomputes the slug.
func (s *CatalogService) Update(ctx context.Context, id int, in models.ServiceUpdate) (*models.Service, error) {
	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, core.NewValidationError("name is required", nil).WithDetails(map[string]string{"name": "name is required"})
		}
		service.Name = name
		service.Slug = slug.Slugify(name)
		if service.Slug == "" {
			return nil, ErrEmptySlug
		}
	}
	if in.Summary != nil {
		service.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.Description != nil {
		service.Description = strings.TrimSpace(*in.Description)
	}
	if in.Icon != nil {
		service.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.Position != nil {
		service.Position = *in.Position
	}
	if in.Active != nil {
		service.Active = *in.Active
	}
	service.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE services
		SET name = ?, slug = ?, summary = ?, description = ?, icon = ?, position = ?, active = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = s.db.ExecWithTimeout(ctx, query,
		service.Name,
		service.Slug,
		service.Summary,
		service.Description,
		service.Icon,
		service.Position,
		service.Active,
		service.UpdatedAt,
		service.ID,
	)
	if err != nil {
		if isUniqueSlugViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.logger.Info("Updated service", "id", service.ID, "slug", service.Slug)
	return service, nil
}

// Delete removes a service
func (s *CatalogService) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecWithTimeout(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrServiceNotFound
	}

	s.logger.Info("Deleted service", "id", id)
	return nil
}

// Count returns the number of services
func (s *CatalogService) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowWithTimeout(ctx, `SELECT COUNT(*) FROM services`).Scan(&count)
	return count, err
}

// Seed inserts services when the catalog is empty and returns how many
// were added
func (s *CatalogService) Seed(ctx context.Context, seed []models.ServiceCreate) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i, in := range seed {
		if _, err := s.Create(ctx, in); err != nil {
			return i, fmt.Errorf("failed to seed service %q: %w", in.Name, err)
		}
	}

	s.logger.Info("Seeded services catalog", "count", len(seed))
	return len(seed), nil
}
