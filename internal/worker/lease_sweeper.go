package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parkgate/internal/pkg/config"
	"parkgate/internal/usecase/commands"
)

// LeaseSweeper reclaims capacity from overdue holds on a fixed interval. The
// lease status compare-and-set makes the sweep safe to race against payment
// confirmation and cancellation.
type LeaseSweeper struct {
	reservations commands.ReservationCommands
	interval     time.Duration
	batchSize    int

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewLeaseSweeper(reservations commands.ReservationCommands, cfg config.Config) *LeaseSweeper {
	return &LeaseSweeper{
		reservations: reservations,
		interval:     cfg.Lease.SweepInterval,
		batchSize:    cfg.Lease.SweepBatch,
		stopCh:       make(chan struct{}),
	}
}

func (w *LeaseSweeper) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	slog.Info("starting lease sweeper", "interval", w.interval, "batch_size", w.batchSize)

	w.wg.Add(1)
	go w.run(ctx)
}

func (w *LeaseSweeper) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()
	slog.Info("lease sweeper stopped")
}

func (w *LeaseSweeper) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *LeaseSweeper) sweep(ctx context.Context) {
	expired, err := w.reservations.ExpireDue(ctx, w.batchSize)
	if err != nil {
		slog.Error("lease sweep failed", "error", err.Error(), "expired_before_failure", expired)
		return
	}
	if expired > 0 {
		slog.Info("lease sweep reclaimed holds", "expired", expired)
	}
}
