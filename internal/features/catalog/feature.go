package catalog

import (
	"context"
	"net/http"

	"contabil-site/internal/core"
	"contabil-site/internal/features/catalog/handlers"
	"contabil-site/internal/features/catalog/migrations"
	"contabil-site/internal/features/catalog/services"
)

// Feature is the services catalog shown on the site
type Feature struct {
	*core.BaseFeature
	config         *Config
	migrationMgr   *core.MigrationManager
	catalogService *services.CatalogService
	handlers       *handlers.Handlers
}

// NewFeature creates a new catalog feature
func NewFeature(logger *core.Logger, db *core.Database, config *Config) *Feature {
	featureLogger := logger.ForFeature("catalog")

	catalogService := services.NewCatalogService(db, featureLogger)

	return &Feature{
		BaseFeature:    core.NewBaseFeature("catalog", "Catálogo de serviços do escritório", config.Enabled, logger, db),
		config:         config,
		migrationMgr:   migrations.NewManager(db, featureLogger),
		catalogService: catalogService,
		handlers:       handlers.NewHandlers(featureLogger, catalogService),
	}
}

// Init runs the catalog migrations and seeds an empty catalog
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	if err := f.migrationMgr.Migrate(ctx); err != nil {
		return err
	}

	if f.config.Seed {
		seed, err := LoadSeed()
		if err != nil {
			return err
		}
		if _, err := f.catalogService.Seed(ctx, seed); err != nil {
			return err
		}
	}

	f.Logger().Info("Catalog feature initialized successfully")
	return nil
}

// Routes returns the HTTP routes for the catalog feature
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/api/services", Handler: f.handlers.PublicList, Public: true},
		{Method: http.MethodGet, Path: "/api/services/{slug}", Handler: f.handlers.GetBySlug, Public: true},

		{Method: http.MethodGet, Path: "/api/services", Handler: f.handlers.List},
		{Method: http.MethodPost, Path: "/api/services", Handler: f.handlers.Create},
		{Method: http.MethodPut, Path: "/api/services/{id}", Handler: f.handlers.Update},
		{Method: http.MethodDelete, Path: "/api/services/{id}", Handler: f.handlers.Delete},
	}
}

// Service returns the catalog service
func (f *Feature) Service() *services.CatalogService {
	return f.catalogService
}

// DashboardStats returns the catalog counters shown on the admin dashboard
func (f *Feature) DashboardStats(ctx context.Context) ([]core.Stat, error) {
	active, err := f.catalogService.List(ctx, true)
	if err != nil {
		return nil, err
	}

	return []core.Stat{{Label: "Serviços ativos", Value: len(active)}}, nil
}
