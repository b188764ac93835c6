// Package scheduler runs the background loops: currently the saved-URL
// cache reconciler.
package scheduler

import (
	"context"
	"time"

	"github.com/sneyderangulo/readinglist/internal/cache"
	"github.com/sneyderangulo/readinglist/internal/coordinator"
	"github.com/sneyderangulo/readinglist/internal/logger"
)

// CacheReconciler periodically rebuilds every warm saved-URL cache from the
// store. Incremental updates keep caches fresh in the common case, the
// reconciler catches whatever slipped through (crashed writes, direct
// database edits).
type CacheReconciler struct {
	coord         *coordinator.Coordinator
	urls          *cache.SavedURLs
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewCacheReconciler(
	coord *coordinator.Coordinator,
	urls *cache.SavedURLs,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CacheReconciler {
	return &CacheReconciler{
		coord:         coord,
		urls:          urls,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reconcile loop.
func (cr *CacheReconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cr.Reconcile(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual cache reconcile triggered")
				cr.Reconcile(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reconciler.
func (cr *CacheReconciler) Stop() {
	close(cr.stopCh)
}

// Reconcile rebuilds each warm cache entry from the store. Failures are
// logged per owner, one bad rebuild does not block the rest.
func (cr *CacheReconciler) Reconcile(ctx context.Context) {
	owners := cr.urls.Owners()
	if len(owners) == 0 {
		return
	}

	cr.logger.Debug("reconciling saved-url caches",
		logger.Int("owners", len(owners)))

	for _, ownerID := range owners {
		if err := cr.coord.RebuildCache(ctx, ownerID); err != nil {
			cr.logger.Warn("failed to reconcile cache",
				logger.String("owner", ownerID),
				logger.Error(err))
		}
	}
}
