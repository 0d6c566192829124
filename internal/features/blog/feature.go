package blog

import (
	"context"
	"net/http"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/features/blog/handlers"
)

// Feature exposes the posts as a read-only JSON API
type Feature struct {
	*core.BaseFeature
	source   *content.StaticSource
	handlers *handlers.Handlers
}

// NewFeature creates a new blog feature over source
func NewFeature(logger *core.Logger, db *core.Database, source *content.StaticSource, config *Config) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("blog", "API de posts do blog", config.Enabled, logger, db),
		source:      source,
		handlers:    handlers.NewHandlers(logger.ForFeature("blog"), source),
	}
}

// Init logs the size of the post collection
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	f.Logger().Info("Blog feature initialized successfully",
		"posts", len(f.source.Posts()),
		"categories", len(f.source.Categories()),
	)
	return nil
}

// Routes returns the HTTP routes for the blog feature
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/api/posts", Handler: f.handlers.List, Public: true},
		{Method: http.MethodGet, Path: "/api/posts/{slug}", Handler: f.handlers.Get, Public: true},
		{Method: http.MethodGet, Path: "/api/categories", Handler: f.handlers.Categories, Public: true},
	}
}

// DashboardStats returns the post count shown on the admin dashboard
func (f *Feature) DashboardStats(ctx context.Context) ([]core.Stat, error) {
	return []core.Stat{{Label: "Posts publicados", Value: len(f.source.Posts())}}, nil
}
