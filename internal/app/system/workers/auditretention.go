// internal/app/system/workers/auditretention.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MusaCap/faithlink360/internal/app/store/audit"
	"go.uber.org/zap"
)

// AuditRetention is a background worker that prunes old audit events.
type AuditRetention struct {
	store     *audit.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewAuditRetention creates a new audit retention worker.
//
// Parameters:
//   - store: the audit event store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 24 hours)
//   - retention: how long audit events are kept (e.g., 365 days)
func NewAuditRetention(store *audit.Store, logger *zap.Logger, interval, retention time.Duration) *AuditRetention {
	return &AuditRetention{
		store:     store,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *AuditRetention) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("audit retention worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *AuditRetention) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("audit retention worker stopped")
}

func (w *AuditRetention) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *AuditRetention) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.retention)
	count, err := w.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("audit retention sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("pruned old audit events", zap.Int64("count", count))
	}
}
