package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBookingCancelled = errors.New("slot booking is cancelled")
	ErrBookingVerified  = errors.New("slot booking is already verified")
)

// TicketReservation binds one ticket to one slot. A ticket holds at most one
// active binding at a time.
type TicketReservation struct {
	id        uuid.UUID
	ticketID  uuid.UUID
	slotID    uuid.UUID
	status    BookingStatus
	createdAt time.Time
	updatedAt time.Time
}

func NewTicketReservation(ticketID, slotID uuid.UUID, now time.Time) *TicketReservation {
	return &TicketReservation{
		id:        uuid.New(),
		ticketID:  ticketID,
		slotID:    slotID,
		status:    BookingReserved,
		createdAt: now,
	}
}

func ReconstructTicketReservation(
	id, ticketID, slotID uuid.UUID,
	status BookingStatus,
	createdAt, updatedAt time.Time,
) *TicketReservation {
	return &TicketReservation{
		id:        id,
		ticketID:  ticketID,
		slotID:    slotID,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (b *TicketReservation) ID() uuid.UUID         { return b.id }
func (b *TicketReservation) TicketID() uuid.UUID   { return b.ticketID }
func (b *TicketReservation) SlotID() uuid.UUID     { return b.slotID }
func (b *TicketReservation) Status() BookingStatus { return b.status }
func (b *TicketReservation) CreatedAt() time.Time  { return b.createdAt }
func (b *TicketReservation) UpdatedAt() time.Time  { return b.updatedAt }

func (b *TicketReservation) IsReserved() bool {
	return b.status == BookingReserved
}

// Cancel releases the binding. Cancelling an already-cancelled booking is a
// no-op; a verified booking can no longer be cancelled.
func (b *TicketReservation) Cancel() error {
	switch b.status {
	case BookingCancelled:
		return nil
	case BookingVerified:
		return ErrBookingVerified
	}
	b.status = BookingCancelled
	return nil
}

// Verify consumes the binding permanently. The slot's booked counter is left
// untouched: capacity returns only through cancellation.
func (b *TicketReservation) Verify() error {
	switch b.status {
	case BookingVerified:
		return nil
	case BookingCancelled:
		return ErrBookingCancelled
	}
	b.status = BookingVerified
	return nil
}
