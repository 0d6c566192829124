package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contabil-site/internal/core"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	return 2, p.err
}

func TestJanitorPurgesOnStartAndInterval(t *testing.T) {
	purger := &countingPurger{}
	j := New(purger, core.NewDiscardLogger(), 10*time.Millisecond)

	j.Start(context.Background())
	assert.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	j.Stop()
	calls := purger.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, purger.calls.Load(), "no purge after Stop")

	// Stop is idempotent
	j.Stop()
}

func TestJanitorStopsOnContextCancel(t *testing.T) {
	purger := &countingPurger{err: errors.New("database is locked")}
	j := New(purger, core.NewDiscardLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx)
	assert.Eventually(t, func() bool { return purger.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not exit after context cancellation")
	}
}

func TestNewDefaultsInterval(t *testing.T) {
	j := New(&countingPurger{}, core.NewDiscardLogger(), 0)
	assert.Equal(t, DefaultInterval, j.interval)
}
