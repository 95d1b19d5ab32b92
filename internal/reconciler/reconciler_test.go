package reconciler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	patches []core.LedgerPatch
	n       int64
	err     error
}

func (f *fakeLedger) FailStale(ctx context.Context, cutoff time.Time, patch core.LedgerPatch) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	f.patches = append(f.patches, patch)
	return f.n, f.err
}

func (f *fakeLedger) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestSweep(t *testing.T) {
	ledger := &fakeLedger{n: 3}
	r := New(ledger, time.Minute, 15*time.Minute, logging.Discard())
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	assert.Equal(t, int64(3), r.Sweep(context.Background()))
	require.Len(t, ledger.cutoffs, 1)
	assert.Equal(t, fixed.Add(-15*time.Minute), ledger.cutoffs[0])
	assert.Equal(t, StaleError, ledger.patches[0].Error)

	ledger.err = errors.New("connection refused")
	assert.Equal(t, int64(0), r.Sweep(context.Background()))
}

func TestStart(t *testing.T) {
	ledger := &fakeLedger{}
	r := New(ledger, 10*time.Millisecond, time.Minute, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	require.Eventually(t, func() bool { return ledger.calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop after cancel")
	}
}
