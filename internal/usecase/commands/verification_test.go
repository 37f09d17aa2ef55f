//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/slot"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/testutil"
	"parkgate/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOperator(t *testing.T, store *testutil.MemStore, opType operator.Type, partnerID *uuid.UUID) *operator.Operator {
	t.Helper()
	op, err := operator.NewOperator(uuid.NewString(), "hash", opType, partnerID)
	require.NoError(t, err)
	store.SeedOperator(op)
	return op
}

// bookedTicket runs the full path to a slot-bound ticket sold via the given channel.
func bookedTicket(
	t *testing.T,
	store *testutil.MemStore,
	clk *clock.MockClock,
	channel product.Channel,
	partnerID *uuid.UUID,
) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	p := seedProduct(t, store, 100, 60, 30, 10)
	s := seedSlot(t, store, 10)

	reservations := commands.NewReservationCommands(store, clk, config.NewTestConfig())
	reserved, err := reservations.Reserve(ctx, commands.ReserveInput{
		ProductID:      p.ID(),
		Channel:        channel,
		PartnerID:      partnerID,
		Quantity:       1,
		TTL:            15 * time.Minute,
		CustomerRef:    "guest-42",
		IdempotencyKey: uuid.NewString(),
	})
	require.NoError(t, err)
	_, err = reservations.ConfirmPayment(ctx, reserved.ReservationID, uuid.New())
	require.NoError(t, err)

	bookings := commands.NewBookingCommands(store, clk)
	_, err = bookings.BookSlot(ctx, reserved.TicketIDs[0], s.ID())
	require.NoError(t, err)

	return reserved.TicketIDs[0]
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("internal operator verifies an online ticket", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		ticketID := bookedTicket(t, store, clk, product.ChannelOnline, nil)
		op := seedOperator(t, store, operator.TypeInternal, nil)
		svc := commands.NewVerificationCommands(store, clk)

		result, err := svc.Verify(ctx, op.ID(), ticketID)
		require.NoError(t, err)

		assert.False(t, result.Replayed)
		assert.Equal(t, testStart, result.VerifiedAt)

		tkt := store.Ticket(ticketID)
		assert.Equal(t, ticket.StatusVerified, tkt.Status())
		require.NotNil(t, tkt.VerifiedBy())
		assert.Equal(t, op.ID(), *tkt.VerifiedBy())

		booking := store.Booking(*tkt.SlotBookingID())
		assert.Equal(t, slot.BookingVerified, booking.Status())
	})

	t.Run("ota operator verifies its own partner's ticket", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		partnerID := uuid.New()
		ticketID := bookedTicket(t, store, clk, product.ChannelOTA, &partnerID)
		op := seedOperator(t, store, operator.TypeOTA, &partnerID)
		svc := commands.NewVerificationCommands(store, clk)

		_, err := svc.Verify(ctx, op.ID(), ticketID)
		require.NoError(t, err)
	})

	t.Run("ota operator denied on another partner's ticket", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		partnerID := uuid.New()
		otherPartner := uuid.New()
		ticketID := bookedTicket(t, store, clk, product.ChannelOTA, &partnerID)
		op := seedOperator(t, store, operator.TypeOTA, &otherPartner)
		svc := commands.NewVerificationCommands(store, clk)

		_, err := svc.Verify(ctx, op.ID(), ticketID)
		require.ErrorIs(t, err, operator.ErrUnauthorized)
		assert.Equal(t, ticket.StatusReserved, store.Ticket(ticketID).Status())
	})

	t.Run("ota operator denied outside the ota channel", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		partnerID := uuid.New()
		ticketID := bookedTicket(t, store, clk, product.ChannelOnline, nil)
		op := seedOperator(t, store, operator.TypeOTA, &partnerID)
		svc := commands.NewVerificationCommands(store, clk)

		_, err := svc.Verify(ctx, op.ID(), ticketID)
		require.ErrorIs(t, err, operator.ErrUnauthorized)
	})

	t.Run("disabled operator denied", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		ticketID := bookedTicket(t, store, clk, product.ChannelOnline, nil)

		op, err := operator.NewOperator("gate-1", "hash", operator.TypeInternal, nil)
		require.NoError(t, err)
		op.Disable()
		store.SeedOperator(op)
		svc := commands.NewVerificationCommands(store, clk)

		_, err = svc.Verify(ctx, op.ID(), ticketID)
		require.ErrorIs(t, err, operator.ErrOperatorDisabled)
	})

	t.Run("unknown operator", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		ticketID := bookedTicket(t, store, clk, product.ChannelOnline, nil)
		svc := commands.NewVerificationCommands(store, clk)

		_, err := svc.Verify(ctx, uuid.New(), ticketID)
		require.ErrorIs(t, err, errs.ErrOperatorNotFound)
	})

	t.Run("replaying keeps the first verification time", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		ticketID := bookedTicket(t, store, clk, product.ChannelOnline, nil)
		op := seedOperator(t, store, operator.TypeInternal, nil)
		svc := commands.NewVerificationCommands(store, clk)

		first, err := svc.Verify(ctx, op.ID(), ticketID)
		require.NoError(t, err)

		clk.Add(5 * time.Minute)
		second, err := svc.Verify(ctx, op.ID(), ticketID)
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.VerifiedAt, second.VerifiedAt)
	})

	t.Run("ticket without a slot booking", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		p := seedProduct(t, store, 100, 60, 30, 10)
		reservations := commands.NewReservationCommands(store, clk, config.NewTestConfig())
		ctx := context.Background()

		reserved, err := reservations.Reserve(ctx, reserveInput(p.ID(), "key-1", 1))
		require.NoError(t, err)
		_, err = reservations.ConfirmPayment(ctx, reserved.ReservationID, uuid.New())
		require.NoError(t, err)

		op := seedOperator(t, store, operator.TypeInternal, nil)
		svc := commands.NewVerificationCommands(store, clk)

		_, err = svc.Verify(ctx, op.ID(), reserved.TicketIDs[0])
		require.ErrorIs(t, err, ticket.ErrInvalidTransition)
	})

	t.Run("cancelled ticket", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		ticketID := bookedTicket(t, store, clk, product.ChannelOnline, nil)

		bookings := commands.NewBookingCommands(store, clk)
		tkt := store.Ticket(ticketID)
		require.NoError(t, bookings.CancelBooking(ctx, *tkt.SlotBookingID()))

		op := seedOperator(t, store, operator.TypeInternal, nil)
		svc := commands.NewVerificationCommands(store, clk)

		_, err := svc.Verify(ctx, op.ID(), ticketID)
		require.ErrorIs(t, err, ticket.ErrInvalidTransition)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		store, clk, _ := newTestEnv()
		op := seedOperator(t, store, operator.TypeInternal, nil)
		svc := commands.NewVerificationCommands(store, clk)

		_, err := svc.Verify(ctx, op.ID(), uuid.New())
		require.ErrorIs(t, err, errs.ErrTicketNotFound)
	})
}
