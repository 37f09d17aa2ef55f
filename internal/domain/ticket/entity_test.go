//go:build unit

package ticket_test

import (
	"testing"
	"time"

	"parkgate/internal/domain/product"
	"parkgate/internal/domain/ticket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newPendingTicket() *ticket.Ticket {
	return ticket.NewPending(
		uuid.New(), uuid.New(), product.ChannelOnline, nil,
		"guest-42", now.Add(15*time.Minute), now,
	)
}

func TestNewPending(t *testing.T) {
	tkt := newPendingTicket()

	assert.Equal(t, ticket.StatusPendingPayment, tkt.Status())
	require.NotNil(t, tkt.ExpiresAt())
	assert.Equal(t, now.Add(15*time.Minute), *tkt.ExpiresAt())
	assert.Nil(t, tkt.OrderID())
	assert.Nil(t, tkt.SlotBookingID())
}

func TestTicketActivate(t *testing.T) {
	orderID := uuid.New()

	t.Run("clears the payment deadline", func(t *testing.T) {
		tkt := newPendingTicket()

		require.NoError(t, tkt.Activate(orderID))

		assert.Equal(t, ticket.StatusActivated, tkt.Status())
		assert.Nil(t, tkt.ExpiresAt())
		require.NotNil(t, tkt.OrderID())
		assert.Equal(t, orderID, *tkt.OrderID())
	})

	t.Run("replaying is a no-op", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Activate(orderID))

		require.NoError(t, tkt.Activate(uuid.New()))
		assert.Equal(t, orderID, *tkt.OrderID())
	})

	t.Run("cancelled ticket cannot activate", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Cancel())

		require.ErrorIs(t, tkt.Activate(orderID), ticket.ErrInvalidTransition)
	})
}

func TestTicketBindSlot(t *testing.T) {
	bookingID := uuid.New()

	t.Run("activated ticket only", func(t *testing.T) {
		tkt := newPendingTicket()
		require.ErrorIs(t, tkt.BindSlot(bookingID), ticket.ErrInvalidTransition)

		require.NoError(t, tkt.Activate(uuid.New()))
		require.NoError(t, tkt.BindSlot(bookingID))

		assert.Equal(t, ticket.StatusReserved, tkt.Status())
		require.NotNil(t, tkt.SlotBookingID())
		assert.Equal(t, bookingID, *tkt.SlotBookingID())
	})

	t.Run("reserved ticket cannot bind again", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Activate(uuid.New()))
		require.NoError(t, tkt.BindSlot(bookingID))

		require.ErrorIs(t, tkt.BindSlot(uuid.New()), ticket.ErrInvalidTransition)
	})
}

func TestTicketVerify(t *testing.T) {
	operatorID := uuid.New()

	reservedTicket := func(t *testing.T) *ticket.Ticket {
		t.Helper()
		tkt := newPendingTicket()
		require.NoError(t, tkt.Activate(uuid.New()))
		require.NoError(t, tkt.BindSlot(uuid.New()))
		return tkt
	}

	t.Run("records operator and time", func(t *testing.T) {
		tkt := reservedTicket(t)

		require.NoError(t, tkt.Verify(operatorID, now))

		assert.Equal(t, ticket.StatusVerified, tkt.Status())
		require.NotNil(t, tkt.VerifiedBy())
		assert.Equal(t, operatorID, *tkt.VerifiedBy())
		require.NotNil(t, tkt.VerifiedAt())
		assert.Equal(t, now, *tkt.VerifiedAt())
	})

	t.Run("replaying keeps the first verification", func(t *testing.T) {
		tkt := reservedTicket(t)
		require.NoError(t, tkt.Verify(operatorID, now))

		require.NoError(t, tkt.Verify(uuid.New(), now.Add(time.Minute)))

		assert.Equal(t, operatorID, *tkt.VerifiedBy())
		assert.Equal(t, now, *tkt.VerifiedAt())
	})

	t.Run("only reserved tickets verify", func(t *testing.T) {
		tkt := newPendingTicket()
		require.ErrorIs(t, tkt.Verify(operatorID, now), ticket.ErrInvalidTransition)

		require.NoError(t, tkt.Activate(uuid.New()))
		require.ErrorIs(t, tkt.Verify(operatorID, now), ticket.ErrInvalidTransition)
	})
}

func TestTicketCancel(t *testing.T) {
	t.Run("allowed from any pre-verification state", func(t *testing.T) {
		pending := newPendingTicket()
		require.NoError(t, pending.Cancel())
		assert.Equal(t, ticket.StatusCancelled, pending.Status())

		activated := newPendingTicket()
		require.NoError(t, activated.Activate(uuid.New()))
		require.NoError(t, activated.Cancel())

		reserved := newPendingTicket()
		require.NoError(t, reserved.Activate(uuid.New()))
		require.NoError(t, reserved.BindSlot(uuid.New()))
		require.NoError(t, reserved.Cancel())
	})

	t.Run("replaying is a no-op", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Cancel())
		require.NoError(t, tkt.Cancel())
	})

	t.Run("verified ticket cannot cancel", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Activate(uuid.New()))
		require.NoError(t, tkt.BindSlot(uuid.New()))
		require.NoError(t, tkt.Verify(uuid.New(), now))

		require.ErrorIs(t, tkt.Cancel(), ticket.ErrInvalidTransition)
	})
}

func TestTicketExpire(t *testing.T) {
	t.Run("unpaid ticket expires", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Expire())
		assert.Equal(t, ticket.StatusExpired, tkt.Status())

		require.NoError(t, tkt.Expire())
	})

	t.Run("paid ticket never expires", func(t *testing.T) {
		tkt := newPendingTicket()
		require.NoError(t, tkt.Activate(uuid.New()))

		require.ErrorIs(t, tkt.Expire(), ticket.ErrInvalidTransition)
	})
}

func TestTicketStatusIsTerminal(t *testing.T) {
	assert.True(t, ticket.StatusVerified.IsTerminal())
	assert.True(t, ticket.StatusExpired.IsTerminal())
	assert.True(t, ticket.StatusCancelled.IsTerminal())
	assert.False(t, ticket.StatusPendingPayment.IsTerminal())
	assert.False(t, ticket.StatusActivated.IsTerminal())
	assert.False(t, ticket.StatusReserved.IsTerminal())
}
