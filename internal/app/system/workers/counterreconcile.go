// internal/app/system/workers/counterreconcile.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	participationstore "github.com/dalemusser/volunteerhub/internal/app/store/participations"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
)

// CounterReconcile periodically recounts project enrollment from the
// participations ledger and repairs drifted counters. Drift appears when
// a join or leave dies between its two writes, or when a role-change
// purge ran without transactions.
type CounterReconcile struct {
	parts    *participationstore.Store
	log      *zap.Logger
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewCounterReconcile creates the reconcile worker. schedule is a cron
// expression such as "*/10 * * * *" (every ten minutes).
func NewCounterReconcile(parts *participationstore.Store, logger *zap.Logger, schedule string) *CounterReconcile {
	return &CounterReconcile{
		parts:    parts,
		log:      logger,
		schedule: schedule,
		cron:     cron.New(cron.WithLocation(time.UTC)),
	}
}

// Start registers the job and begins the scheduler. One pass runs
// immediately so a restart repairs drift without waiting a full cycle.
func (w *CounterReconcile) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.runOnce); err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info("counter reconcile worker started", zap.String("schedule", w.schedule))

	go w.runOnce()
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (w *CounterReconcile) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("counter reconcile worker stopped")
}

func (w *CounterReconcile) runOnce() {
	// Skip a tick if the previous pass is still going.
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.log.Warn("counter reconcile pass still running; skipping tick")
		return
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	res, err := w.parts.Recompute(ctx)
	if err != nil {
		w.log.Error("counter reconcile pass failed", zap.Error(err))
		return
	}
	if res.Adjusted > 0 {
		w.log.Warn("repaired drifted enrollment counters",
			zap.Int("checked", res.Checked),
			zap.Int("adjusted", res.Adjusted))
		return
	}
	w.log.Debug("counter reconcile pass clean", zap.Int("checked", res.Checked))
}
