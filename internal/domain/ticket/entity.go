package ticket

import (
	"errors"
	"time"

	"parkgate/internal/domain/product"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid ticket state transition")

// Ticket is one sellable unit's end-to-end lifecycle record. Tickets are never
// deleted; expiry and cancellation are terminal status values so the audit
// trail survives.
type Ticket struct {
	id            uuid.UUID
	reservationID uuid.UUID
	orderID       *uuid.UUID
	productID     uuid.UUID
	channel       product.Channel
	partnerID     *uuid.UUID
	customerRef   string
	slotBookingID *uuid.UUID
	expiresAt     *time.Time
	verifiedBy    *uuid.UUID
	verifiedAt    *time.Time
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPending creates an unpaid ticket backed by an active channel reservation.
// It shares the reservation's deadline until payment confirms it.
func NewPending(
	reservationID, productID uuid.UUID,
	channel product.Channel,
	partnerID *uuid.UUID,
	customerRef string,
	expiresAt time.Time,
	now time.Time,
) *Ticket {
	deadline := expiresAt
	return &Ticket{
		id:            uuid.New(),
		reservationID: reservationID,
		productID:     productID,
		channel:       channel,
		partnerID:     partnerID,
		customerRef:   customerRef,
		expiresAt:     &deadline,
		status:        StatusPendingPayment,
		createdAt:     now,
	}
}

func Reconstruct(
	id, reservationID uuid.UUID,
	orderID *uuid.UUID,
	productID uuid.UUID,
	channel product.Channel,
	partnerID *uuid.UUID,
	customerRef string,
	slotBookingID *uuid.UUID,
	expiresAt *time.Time,
	verifiedBy *uuid.UUID,
	verifiedAt *time.Time,
	status Status,
	createdAt, updatedAt time.Time,
) *Ticket {
	return &Ticket{
		id:            id,
		reservationID: reservationID,
		orderID:       orderID,
		productID:     productID,
		channel:       channel,
		partnerID:     partnerID,
		customerRef:   customerRef,
		slotBookingID: slotBookingID,
		expiresAt:     expiresAt,
		verifiedBy:    verifiedBy,
		verifiedAt:    verifiedAt,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (t *Ticket) ID() uuid.UUID            { return t.id }
func (t *Ticket) ReservationID() uuid.UUID { return t.reservationID }
func (t *Ticket) OrderID() *uuid.UUID      { return t.orderID }
func (t *Ticket) ProductID() uuid.UUID     { return t.productID }
func (t *Ticket) Channel() product.Channel { return t.channel }
func (t *Ticket) PartnerID() *uuid.UUID    { return t.partnerID }
func (t *Ticket) CustomerRef() string      { return t.customerRef }
func (t *Ticket) SlotBookingID() *uuid.UUID {
	return t.slotBookingID
}
func (t *Ticket) ExpiresAt() *time.Time  { return t.expiresAt }
func (t *Ticket) VerifiedBy() *uuid.UUID { return t.verifiedBy }
func (t *Ticket) VerifiedAt() *time.Time { return t.verifiedAt }
func (t *Ticket) Status() Status         { return t.status }
func (t *Ticket) CreatedAt() time.Time   { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time   { return t.updatedAt }

// Activate confirms payment. Re-activating an already activated ticket is a
// no-op so retried confirmations do not fail.
func (t *Ticket) Activate(orderID uuid.UUID) error {
	if t.status == StatusActivated {
		return nil
	}
	if t.status != StatusPendingPayment {
		return ErrInvalidTransition
	}
	t.status = StatusActivated
	t.orderID = &orderID
	t.expiresAt = nil
	return nil
}

// BindSlot attaches a slot booking to an activated ticket.
func (t *Ticket) BindSlot(bookingID uuid.UUID) error {
	if t.status != StatusActivated {
		return ErrInvalidTransition
	}
	t.status = StatusReserved
	t.slotBookingID = &bookingID
	return nil
}

// Verify marks venue entry. Idempotent for an already verified ticket.
func (t *Ticket) Verify(operatorID uuid.UUID, now time.Time) error {
	if t.status == StatusVerified {
		return nil
	}
	if t.status != StatusReserved {
		return ErrInvalidTransition
	}
	t.status = StatusVerified
	t.verifiedBy = &operatorID
	verifiedAt := now
	t.verifiedAt = &verifiedAt
	return nil
}

// Cancel is terminal from any pre-verification state. Cancelling a cancelled
// ticket is a no-op.
func (t *Ticket) Cancel() error {
	switch t.status {
	case StatusCancelled:
		return nil
	case StatusPendingPayment, StatusActivated, StatusReserved:
		t.status = StatusCancelled
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Expire ends an unpaid ticket whose reservation deadline passed.
func (t *Ticket) Expire() error {
	if t.status == StatusExpired {
		return nil
	}
	if t.status != StatusPendingPayment {
		return ErrInvalidTransition
	}
	t.status = StatusExpired
	return nil
}
