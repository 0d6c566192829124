package handlers

import (
	"net/http"

	"contabil-site/internal/auth"
	"contabil-site/internal/core"
	"contabil-site/views/portal"
)

// PortalHandler handles the admin dashboard and the health check
type PortalHandler struct {
	logger   *core.Logger
	registry *core.Registry
	db       *core.Database
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(logger *core.Logger, registry *core.Registry, db *core.Database) *PortalHandler {
	return &PortalHandler{
		logger:   logger,
		registry: registry,
		db:       db,
	}
}

// DashboardHandler serves the admin dashboard
func (h *PortalHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r)

	data := portal.DashboardData{UserName: user.Name}
	for _, status := range h.registry.GetFeatureStatus() {
		data.Features = append(data.Features, portal.FeatureCard{
			Name:        status.Name,
			Description: status.Description,
			Enabled:     status.Enabled,
		})
	}

	for _, feature := range h.registry.ListEnabled() {
		provider, ok := feature.(StatsProvider)
		if !ok {
			continue
		}

		stats, err := provider.DashboardStats(r.Context())
		if err != nil {
			h.logger.WithContext(r.Context()).Error("Failed to load dashboard stats", "feature", feature.Name(), "error", err)
			continue
		}
		for _, stat := range stats {
			data.Stats = append(data.Stats, portal.Stat{Label: stat.Label, Value: stat.Value})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := portal.Dashboard(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render dashboard", "error", err)
	}
}

// FeaturesHandler returns the status of every registered feature
func (h *PortalHandler) FeaturesHandler(w http.ResponseWriter, r *http.Request) {
	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": h.registry.GetFeatureStatus()})
}

// HealthCheckHandler reports whether the server and its database are up
func (h *PortalHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		core.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unavailable",
			"service": "contabil-site",
		})
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "contabil-site",
	})
}
