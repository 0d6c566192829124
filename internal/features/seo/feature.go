package seo

import (
	"context"
	"net/http"
	"time"

	"contabil-site/internal/content"
	"contabil-site/internal/core"
	"contabil-site/internal/features/seo/handlers"
	"contabil-site/internal/sitemap"
)

// Feature serves sitemap.xml, robots.txt, the RSS feed and the HTML site map
type Feature struct {
	*core.BaseFeature
	source   content.Source
	handlers *handlers.Handlers
}

// NewFeature creates a new SEO feature over source
func NewFeature(logger *core.Logger, db *core.Database, source content.Source, config *Config) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("seo", "Sitemap, robots.txt e feed RSS", config.Enabled, logger, db),
		source:      source,
		handlers:    handlers.NewHandlers(logger.ForFeature("seo"), source),
	}
}

// Init generates the sitemap once so malformed posts show up in the logs at
// startup
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	urls, skipped := sitemap.NewSynthesizer(f.source, f.Logger()).URLs(time.Now())
	f.Logger().Info("SEO feature initialized successfully", "urls", len(urls), "skipped", len(skipped))
	return nil
}

// Routes returns the HTTP routes for the SEO feature
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/sitemap.xml", Handler: f.handlers.SitemapXML, Public: true},
		{Method: http.MethodGet, Path: "/robots.txt", Handler: f.handlers.RobotsTxt, Public: true},
		{Method: http.MethodGet, Path: "/feed.xml", Handler: f.handlers.FeedXML, Public: true},
		{Method: http.MethodGet, Path: "/mapa-do-site", Handler: f.handlers.SitemapPage, Public: true},
		{Method: http.MethodGet, Path: "/api/sitemap", Handler: f.handlers.SitemapJSON, Public: true},
	}
}
