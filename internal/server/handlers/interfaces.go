package handlers

import (
	"context"

	"contabil-site/internal/core"
)

// StatsProvider is implemented by features that show counters on the
// admin dashboard
type StatsProvider interface {
	DashboardStats(ctx context.Context) ([]core.Stat, error)
}
