// Package cache gates reconciliation behind a TTL and holds the three entity
// catalogs for the process lifetime.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/adukes40/de-school-closings/internal/domain"
	"github.com/adukes40/de-school-closings/internal/observability"
)

// Refresher produces a fresh reconciliation result.
type Refresher interface {
	Reconcile(ctx context.Context) (domain.ReconciliationResult, error)
}

// SnapshotPublisher receives each fresh result for downstream consumers.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, result domain.ReconciliationResult) error
}

// ClosuresCache wraps a Refresher with a time-to-live policy. The mutex is
// held for the whole refresh, so concurrent callers finding an expired cache
// wait for the in-flight refresh instead of triggering duplicate upstream
// fetches.
type ClosuresCache struct {
	refresher Refresher
	snapshots SnapshotPublisher // nil when publishing is disabled
	clock     clockwork.Clock
	ttl       time.Duration
	maxStale  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu          sync.Mutex
	current     *domain.ReconciliationResult
	refreshedAt time.Time
	ready       atomic.Bool
}

// NewClosuresCache creates a freshness cache around a refresher. snapshots
// may be nil.
func NewClosuresCache(r Refresher, snapshots SnapshotPublisher, clock clockwork.Clock, ttl, maxStale time.Duration, logger *slog.Logger, metrics *observability.Metrics) *ClosuresCache {
	return &ClosuresCache{
		refresher: r,
		snapshots: snapshots,
		clock:     clock,
		ttl:       ttl,
		maxStale:  maxStale,
		logger:    logger,
		metrics:   metrics,
	}
}

// GetOrRefresh returns the cached result while it is younger than the TTL,
// refreshing otherwise. On refresh failure, a stale result no older than the
// max-stale bound is returned together with the error so the caller decides
// what to serve; beyond the bound the stale result is discarded and only the
// error returns.
func (c *ClosuresCache) GetOrRefresh(ctx context.Context) (domain.ReconciliationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Refresh only once the age exceeds the TTL; a result exactly TTL old
	// still serves.
	if c.current != nil && c.clock.Since(c.refreshedAt) <= c.ttl {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return *c.current, nil
	}

	result, err := c.refresher.Reconcile(ctx)
	if err != nil {
		if c.current != nil && c.clock.Since(c.refreshedAt) <= c.maxStale {
			c.metrics.CacheLookups.WithLabelValues("stale").Inc()
			c.logger.Warn("refresh failed, serving stale result",
				"error", err,
				"age", c.clock.Since(c.refreshedAt),
			)
			return *c.current, err
		}
		if c.current != nil {
			c.logger.Error("refresh failed and cached result exceeded max stale, discarding", "error", err)
			c.current = nil
		}
		c.metrics.CacheLookups.WithLabelValues("error").Inc()
		return domain.ReconciliationResult{}, err
	}

	c.current = &result
	c.refreshedAt = c.clock.Now()
	c.ready.Store(true)
	c.metrics.CacheLookups.WithLabelValues("refresh").Inc()

	c.publish(ctx, result)

	return result, nil
}

// publish forwards a fresh result to the snapshot sink. Publish failures are
// logged and counted, never surfaced: a downstream outage must not break the
// serving path.
func (c *ClosuresCache) publish(ctx context.Context, result domain.ReconciliationResult) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.PublishSnapshot(ctx, result); err != nil {
		c.metrics.SnapshotErrors.Inc()
		c.logger.Warn("snapshot publish failed", "error", err)
	}
}

// CheckReadiness returns nil once at least one reconciliation has succeeded.
func (c *ClosuresCache) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("no reconciliation has completed yet")
	}
	return nil
}
