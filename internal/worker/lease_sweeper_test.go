//go:build unit

package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"parkgate/internal/pkg/config"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReservations struct {
	sweeps  atomic.Int64
	lastBat atomic.Int64
}

func (s *stubReservations) Reserve(context.Context, commands.ReserveInput) (*commands.ReserveResult, error) {
	return nil, nil
}

func (s *stubReservations) ConfirmPayment(context.Context, uuid.UUID, uuid.UUID) (*commands.ConfirmPaymentResult, error) {
	return nil, nil
}

func (s *stubReservations) Cancel(context.Context, uuid.UUID) error {
	return nil
}

func (s *stubReservations) ExpireDue(_ context.Context, batchSize int) (int, error) {
	s.sweeps.Add(1)
	s.lastBat.Store(int64(batchSize))
	return 1, nil
}

func sweeperConfig(interval time.Duration, batch int) config.Config {
	cfg := config.NewTestConfig()
	cfg.Lease.SweepInterval = interval
	cfg.Lease.SweepBatch = batch
	return cfg
}

func TestLeaseSweeper(t *testing.T) {
	t.Run("sweeps on the configured interval", func(t *testing.T) {
		stub := &stubReservations{}
		sweeper := worker.NewLeaseSweeper(stub, sweeperConfig(10*time.Millisecond, 25))

		sweeper.Start(context.Background())
		defer sweeper.Stop()

		require.Eventually(t, func() bool {
			return stub.sweeps.Load() >= 2
		}, time.Second, 5*time.Millisecond)

		assert.Equal(t, int64(25), stub.lastBat.Load())
	})

	t.Run("stop halts sweeping", func(t *testing.T) {
		stub := &stubReservations{}
		sweeper := worker.NewLeaseSweeper(stub, sweeperConfig(10*time.Millisecond, 10))

		sweeper.Start(context.Background())
		require.Eventually(t, func() bool {
			return stub.sweeps.Load() >= 1
		}, time.Second, 5*time.Millisecond)

		sweeper.Stop()
		after := stub.sweeps.Load()
		time.Sleep(50 * time.Millisecond)

		assert.Equal(t, after, stub.sweeps.Load())
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		stub := &stubReservations{}
		sweeper := worker.NewLeaseSweeper(stub, sweeperConfig(time.Hour, 10))

		sweeper.Start(context.Background())
		sweeper.Start(context.Background())
		sweeper.Stop()
		sweeper.Stop()
	})
}
