package contact

import (
	"context"
	"net/http"

	"contabil-site/internal/core"
	"contabil-site/internal/features/contact/handlers"
	"contabil-site/internal/features/contact/migrations"
	"contabil-site/internal/features/contact/models"
	"contabil-site/internal/features/contact/services"
)

// Feature is the contact form intake and its admin inbox
type Feature struct {
	*core.BaseFeature
	config         *Config
	migrationMgr   *core.MigrationManager
	contactService *services.ContactService
	handlers       *handlers.Handlers
}

// NewFeature creates a new contact feature
func NewFeature(logger *core.Logger, db *core.Database, notifier services.Notifier, config *Config) *Feature {
	featureLogger := logger.ForFeature("contact")

	contactService := services.NewContactService(db, featureLogger, notifier, config.Recipient)

	return &Feature{
		BaseFeature:    core.NewBaseFeature("contact", "Formulário de contato e caixa de mensagens", config.Enabled, logger, db),
		config:         config,
		migrationMgr:   migrations.NewManager(db, featureLogger),
		contactService: contactService,
		handlers:       handlers.NewHandlers(featureLogger, contactService),
	}
}

// Init validates the configuration and runs the contact migrations
func (f *Feature) Init(ctx context.Context) error {
	if err := f.BaseFeature.Init(ctx); err != nil {
		return err
	}

	if err := f.config.Validate(); err != nil {
		return err
	}

	if err := f.migrationMgr.Migrate(ctx); err != nil {
		return err
	}

	f.Logger().Info("Contact feature initialized successfully")
	return nil
}

// Routes returns the HTTP routes for the contact feature
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodPost, Path: "/api/contact", Handler: f.handlers.Submit, Public: true},

		{Method: http.MethodGet, Path: "/api/contacts", Handler: f.handlers.List},
		{Method: http.MethodGet, Path: "/api/contacts/stats", Handler: f.handlers.Stats},
		{Method: http.MethodGet, Path: "/api/contacts/{id}", Handler: f.handlers.Get},
		{Method: http.MethodPut, Path: "/api/contacts/{id}/status", Handler: f.handlers.UpdateStatus},
		{Method: http.MethodDelete, Path: "/api/contacts/{id}", Handler: f.handlers.Delete},
	}
}

// Shutdown waits for pending notifications
func (f *Feature) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.contactService.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		f.Logger().Warn("Shutdown before contact notifications finished", "error", ctx.Err())
	}

	return f.BaseFeature.Shutdown(ctx)
}

// Service returns the contact service
func (f *Feature) Service() *services.ContactService {
	return f.contactService
}

// DashboardStats returns the contact counters shown on the admin dashboard
func (f *Feature) DashboardStats(ctx context.Context) ([]core.Stat, error) {
	stats, err := f.contactService.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return []core.Stat{
		{Label: "Novos contatos", Value: stats.ByStatus[models.StatusNew]},
		{Label: "Total de contatos", Value: stats.Total},
	}, nil
}
