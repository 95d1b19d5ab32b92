// Package reconciler fails ledger entries that never left the processing
// state, such as those orphaned by a crash between ledger open and close.
package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/oranjParker/Sintillio/internal/core"
)

const StaleError = "stale processing entry"

type LedgerStore interface {
	FailStale(ctx context.Context, cutoff time.Time, patch core.LedgerPatch) (int64, error)
}

type Reconciler struct {
	ledger     LedgerStore
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func New(ledger LedgerStore, interval, staleAfter time.Duration, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		ledger:     ledger,
		interval:   interval,
		staleAfter: staleAfter,
		now:        time.Now,
		logger:     logger.With("component", "reconciler"),
	}
}

// Start sweeps once immediately and then on every tick until ctx ends.
func (r *Reconciler) Start(ctx context.Context) error {
	r.logger.Info("reconciler started", "interval", r.interval, "stale_after", r.staleAfter)

	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep marks every processing entry older than the stale threshold as
// failed and returns how many were changed.
func (r *Reconciler) Sweep(ctx context.Context) int64 {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := r.now().Add(-r.staleAfter)
	n, err := r.ledger.FailStale(sweepCtx, cutoff, core.LedgerPatch{Error: StaleError})
	if err != nil {
		r.logger.Error("stale ledger sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		r.logger.Warn("failed stale ledger entries", "count", n, "cutoff", cutoff)
	}
	return n
}
