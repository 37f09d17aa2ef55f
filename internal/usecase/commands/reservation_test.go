//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parkgate/internal/domain/lease"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reserveInput(productID uuid.UUID, key string, qty int) commands.ReserveInput {
	return commands.ReserveInput{
		ProductID:      productID,
		Channel:        product.ChannelOnline,
		Quantity:       qty,
		TTL:            15 * time.Minute,
		CustomerRef:    "guest-42",
		IdempotencyKey: key,
	}
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("holds capacity and creates pending tickets", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		result, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 3))
		require.NoError(t, err)

		assert.False(t, result.Replayed)
		assert.Equal(t, testStart.Add(15*time.Minute), result.ExpiresAt)
		assert.Len(t, result.TicketIDs, 3)

		ledger := store.Ledger(p.ID())
		assert.Equal(t, 3, ledger.TotalHeld())
		assert.Equal(t, 0, ledger.SoldCount())

		reservation := store.Lease(result.ReservationID)
		require.NotNil(t, reservation)
		assert.Equal(t, lease.StatusActive, reservation.Status())

		for _, id := range result.TicketIDs {
			tkt := store.Ticket(id)
			require.NotNil(t, tkt)
			assert.Equal(t, ticket.StatusPendingPayment, tkt.Status())
			assert.Equal(t, "guest-42", tkt.CustomerRef())
		}
	})

	t.Run("input validation", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		_, err := svc.Reserve(ctx, reserveInput(p.ID(), "", 1))
		require.ErrorIs(t, err, errs.ErrIdempotencyKeyRequired)

		_, err = svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 0))
		require.ErrorIs(t, err, product.ErrInvalidQuantity)

		in := reserveInput(p.ID(), "key-1", 1)
		in.Channel = product.Channel("phone")
		_, err = svc.Reserve(ctx, in)
		require.ErrorIs(t, err, product.ErrUnknownChannel)

		_, err = svc.Reserve(ctx, reserveInput(uuid.New(), "key-1", 1))
		require.ErrorIs(t, err, errs.ErrProductNotFound)
	})

	t.Run("ttl falls back to default and clamps to max", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		in := reserveInput(p.ID(), "key-default", 1)
		in.TTL = 0
		result, err := svc.Reserve(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, testStart.Add(cfg.Lease.DefaultTTL), result.ExpiresAt)

		in = reserveInput(p.ID(), "key-max", 1)
		in.TTL = 4 * time.Hour
		result, err = svc.Reserve(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, testStart.Add(cfg.Lease.MaxTTL), result.ExpiresAt)
	})

	t.Run("replays the same key without holding twice", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		first, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)

		second, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.ReservationID, second.ReservationID)
		assert.ElementsMatch(t, first.TicketIDs, second.TicketIDs)
		assert.Equal(t, 2, store.Ledger(p.ID()).TotalHeld())
	})

	t.Run("rejects a reused key with different parameters", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		_, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)

		_, err = svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 5))
		require.ErrorIs(t, err, errs.ErrIdempotencyConflict)

		in := reserveInput(p.ID(), "key-1", 2)
		in.Channel = product.ChannelOnsite
		_, err = svc.Reserve(ctx, in)
		require.ErrorIs(t, err, errs.ErrIdempotencyConflict)
	})

	t.Run("channel quota and inactive product violations", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 5, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		_, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 6))
		require.ErrorIs(t, err, product.ErrChannelQuotaExceeded)
		assert.Equal(t, 0, store.Ledger(p.ID()).TotalHeld())

		inactive, err := product.NewProduct("closed pass", 10, product.ChannelAllocations{Online: 10})
		require.NoError(t, err)
		inactive.Deactivate()
		store.SeedProduct(inactive)

		_, err = svc.Reserve(ctx, reserveInput(inactive.ID(), "key-2", 1))
		require.ErrorIs(t, err, product.ErrProductInactive)
	})

	t.Run("concurrent holds never oversell", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 10, 10, 0, 0)
		svc := commands.NewReservationCommands(store, clk, cfg)

		const attempts = 25
		var wg sync.WaitGroup
		errCh := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := svc.Reserve(ctx, reserveInput(p.ID(), uuid.NewString(), 1))
				errCh <- err
			}(i)
		}
		wg.Wait()
		close(errCh)

		succeeded := 0
		for err := range errCh {
			if err == nil {
				succeeded++
				continue
			}
			require.ErrorIs(t, err, product.ErrChannelQuotaExceeded)
		}

		assert.Equal(t, 10, succeeded)
		ledger := store.Ledger(p.ID())
		assert.Equal(t, 10, ledger.TotalHeld())
		assert.Equal(t, 0, ledger.Available())
	})

	t.Run("concurrent holds on an oversubscribed channel stop at the cap", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		// Quota alone would admit every attempt; only the shared cap binds.
		p := seedProduct(t, store, 50, 100, 0, 0)
		svc := commands.NewReservationCommands(store, clk, cfg)

		const attempts = 100
		var wg sync.WaitGroup
		errCh := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Reserve(ctx, reserveInput(p.ID(), uuid.NewString(), 1))
				errCh <- err
			}()
		}
		wg.Wait()
		close(errCh)

		succeeded, capExceeded := 0, 0
		for err := range errCh {
			if err == nil {
				succeeded++
				continue
			}
			require.ErrorIs(t, err, product.ErrGlobalCapExceeded)
			capExceeded++
		}

		assert.Equal(t, 50, succeeded)
		assert.Equal(t, 50, capExceeded)
		ledger := store.Ledger(p.ID())
		assert.Equal(t, 50, ledger.TotalHeld())
		assert.Equal(t, 0, ledger.Available())
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("commits held capacity and activates tickets", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)

		result, err := svc.ConfirmPayment(ctx, reserved.ReservationID, orderID)
		require.NoError(t, err)

		assert.False(t, result.Replayed)
		assert.ElementsMatch(t, reserved.TicketIDs, result.TicketIDs)

		ledger := store.Ledger(p.ID())
		assert.Equal(t, 2, ledger.SoldCount())
		assert.Equal(t, 0, ledger.TotalHeld())

		reservation := store.Lease(reserved.ReservationID)
		assert.Equal(t, lease.StatusActivated, reservation.Status())
		require.NotNil(t, reservation.OrderID())
		assert.Equal(t, orderID, *reservation.OrderID())

		for _, id := range result.TicketIDs {
			tkt := store.Ticket(id)
			assert.Equal(t, ticket.StatusActivated, tkt.Status())
			assert.Nil(t, tkt.ExpiresAt())
		}
	})

	t.Run("replaying returns the same tickets without a second commit", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)
		first, err := svc.ConfirmPayment(ctx, reserved.ReservationID, orderID)
		require.NoError(t, err)

		second, err := svc.ConfirmPayment(ctx, reserved.ReservationID, uuid.New())
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.ElementsMatch(t, first.TicketIDs, second.TicketIDs)
		assert.Equal(t, 2, store.Ledger(p.ID()).SoldCount())
	})

	t.Run("past the deadline", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 1))
		require.NoError(t, err)

		clk.Add(16 * time.Minute)

		_, err = svc.ConfirmPayment(ctx, reserved.ReservationID, orderID)
		require.ErrorIs(t, err, lease.ErrExpired)
		assert.Equal(t, 0, store.Ledger(p.ID()).SoldCount())
	})

	t.Run("after the sweep expired the hold", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 1))
		require.NoError(t, err)

		clk.Add(16 * time.Minute)
		expired, err := svc.ExpireDue(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, 1, expired)

		_, err = svc.ConfirmPayment(ctx, reserved.ReservationID, orderID)
		require.ErrorIs(t, err, lease.ErrNotActive)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		svc := commands.NewReservationCommands(store, clk, cfg)

		_, err := svc.ConfirmPayment(ctx, uuid.New(), orderID)
		require.ErrorIs(t, err, errs.ErrReservationNotFound)
	})
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("releases held capacity and cancels tickets", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 3))
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, reserved.ReservationID))

		ledger := store.Ledger(p.ID())
		assert.Equal(t, 0, ledger.TotalHeld())
		assert.Equal(t, 100, ledger.Available())
		assert.Equal(t, lease.StatusCancelled, store.Lease(reserved.ReservationID).Status())

		for _, tkt := range store.TicketsByReservation(reserved.ReservationID) {
			assert.Equal(t, ticket.StatusCancelled, tkt.Status())
		}
	})

	t.Run("cancelling twice releases only once", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 3))
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, reserved.ReservationID))
		require.NoError(t, svc.Cancel(ctx, reserved.ReservationID))

		assert.Equal(t, 100, store.Ledger(p.ID()).Available())
	})

	t.Run("cancelling a confirmed reservation is a no-op", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		reserved, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)
		_, err = svc.ConfirmPayment(ctx, reserved.ReservationID, uuid.New())
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, reserved.ReservationID))

		assert.Equal(t, lease.StatusActivated, store.Lease(reserved.ReservationID).Status())
		assert.Equal(t, 2, store.Ledger(p.ID()).SoldCount())
	})

	t.Run("unknown reservation", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		svc := commands.NewReservationCommands(store, clk, cfg)

		require.ErrorIs(t, svc.Cancel(ctx, uuid.New()), errs.ErrReservationNotFound)
	})
}

func TestExpireDue(t *testing.T) {
	ctx := context.Background()

	t.Run("reclaims only overdue holds", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		overdue, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)

		confirmed, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-2", 1))
		require.NoError(t, err)
		_, err = svc.ConfirmPayment(ctx, confirmed.ReservationID, uuid.New())
		require.NoError(t, err)

		clk.Add(16 * time.Minute)

		fresh, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-3", 1))
		require.NoError(t, err)

		expired, err := svc.ExpireDue(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		assert.Equal(t, lease.StatusExpired, store.Lease(overdue.ReservationID).Status())
		assert.Equal(t, lease.StatusActivated, store.Lease(confirmed.ReservationID).Status())
		assert.Equal(t, lease.StatusActive, store.Lease(fresh.ReservationID).Status())

		ledger := store.Ledger(p.ID())
		assert.Equal(t, 1, ledger.SoldCount())
		assert.Equal(t, 1, ledger.TotalHeld())

		for _, tkt := range store.TicketsByReservation(overdue.ReservationID) {
			assert.Equal(t, ticket.StatusExpired, tkt.Status())
		}
	})

	t.Run("sweeping twice reclaims nothing new", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		svc := commands.NewReservationCommands(store, clk, cfg)

		_, err := svc.Reserve(ctx, reserveInput(p.ID(), "key-1", 2))
		require.NoError(t, err)
		clk.Add(16 * time.Minute)

		expired, err := svc.ExpireDue(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, 1, expired)

		expired, err = svc.ExpireDue(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, expired)
		assert.Equal(t, 100, store.Ledger(p.ID()).Available())
	})

	t.Run("empty sweep", func(t *testing.T) {
		store, clk, cfg := newTestEnv()
		svc := commands.NewReservationCommands(store, clk, cfg)

		expired, err := svc.ExpireDue(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, expired)
	})
}
