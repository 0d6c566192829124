// Package janitor periodically removes expired admin session tokens.
package janitor

import (
	"context"
	"sync"
	"time"

	"contabil-site/internal/core"
)

// DefaultInterval is how often expired tokens are purged
const DefaultInterval = time.Hour

// Purger deletes expired rows and reports how many were removed
type Purger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// Janitor runs a Purger on a fixed interval until stopped
type Janitor struct {
	purger   Purger
	logger   *core.Logger
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a janitor. A non-positive interval uses DefaultInterval.
func New(purger Purger, logger *core.Logger, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Janitor{
		purger:   purger,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start runs an initial purge and then one per interval in a goroutine
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Starting token janitor", "interval", j.interval)

	j.wg.Add(1)
	go j.run(ctx)
}

// Stop signals the loop to exit and waits for it
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopChan) })
	j.wg.Wait()
}

func (j *Janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.purge(ctx)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Token janitor context cancelled")
			return
		case <-j.stopChan:
			j.logger.Info("Token janitor stopped")
			return
		case <-ticker.C:
			j.purge(ctx)
		}
	}
}

func (j *Janitor) purge(ctx context.Context) {
	removed, err := j.purger.PurgeExpiredTokens(ctx)
	if err != nil {
		j.logger.Error("Failed to purge expired tokens", "error", err)
		return
	}

	if removed > 0 {
		j.logger.Info("Purged expired tokens", "count", removed)
	}
}
