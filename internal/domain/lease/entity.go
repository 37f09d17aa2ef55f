package lease

import (
	"errors"
	"time"

	"parkgate/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrNotActive       = errors.New("reservation is no longer active")
	ErrExpired         = errors.New("reservation has expired")
	ErrNotYetDue       = errors.New("reservation deadline has not passed")
	ErrInvalidTTL      = errors.New("ttl must be positive")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// ChannelReservation is a time-bounded hold of product units on behalf of a
// sales channel. The deadline is fixed at creation; there is no renewal.
type ChannelReservation struct {
	id             uuid.UUID
	productID      uuid.UUID
	channel        product.Channel
	partnerID      *uuid.UUID
	quantity       int
	status         Status
	expiresAt      time.Time
	orderID        *uuid.UUID
	idempotencyKey string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewChannelReservation(
	productID uuid.UUID,
	channel product.Channel,
	partnerID *uuid.UUID,
	quantity int,
	ttl time.Duration,
	idempotencyKey string,
	now time.Time,
) (*ChannelReservation, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	if !channel.IsValid() {
		return nil, product.ErrUnknownChannel
	}

	return &ChannelReservation{
		id:             uuid.New(),
		productID:      productID,
		channel:        channel,
		partnerID:      partnerID,
		quantity:       quantity,
		status:         StatusActive,
		expiresAt:      now.Add(ttl),
		idempotencyKey: idempotencyKey,
		createdAt:      now,
	}, nil
}

func ReconstructChannelReservation(
	id, productID uuid.UUID,
	channel product.Channel,
	partnerID *uuid.UUID,
	quantity int,
	status Status,
	expiresAt time.Time,
	orderID *uuid.UUID,
	idempotencyKey string,
	createdAt, updatedAt time.Time,
) *ChannelReservation {
	return &ChannelReservation{
		id:             id,
		productID:      productID,
		channel:        channel,
		partnerID:      partnerID,
		quantity:       quantity,
		status:         status,
		expiresAt:      expiresAt,
		orderID:        orderID,
		idempotencyKey: idempotencyKey,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (r *ChannelReservation) ID() uuid.UUID            { return r.id }
func (r *ChannelReservation) ProductID() uuid.UUID     { return r.productID }
func (r *ChannelReservation) Channel() product.Channel { return r.channel }
func (r *ChannelReservation) PartnerID() *uuid.UUID    { return r.partnerID }
func (r *ChannelReservation) Quantity() int            { return r.quantity }
func (r *ChannelReservation) Status() Status           { return r.status }
func (r *ChannelReservation) ExpiresAt() time.Time     { return r.expiresAt }
func (r *ChannelReservation) OrderID() *uuid.UUID      { return r.orderID }
func (r *ChannelReservation) IdempotencyKey() string   { return r.idempotencyKey }
func (r *ChannelReservation) CreatedAt() time.Time     { return r.createdAt }
func (r *ChannelReservation) UpdatedAt() time.Time     { return r.updatedAt }

func (r *ChannelReservation) IsActive() bool {
	return r.status == StatusActive
}

func (r *ChannelReservation) IsDueAt(now time.Time) bool {
	return !r.expiresAt.After(now)
}

// Activate converts the hold into a committed sale. Only an active hold whose
// deadline has not passed may be activated; the order id is attached here.
func (r *ChannelReservation) Activate(orderID uuid.UUID, now time.Time) error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	if r.IsDueAt(now) {
		return ErrExpired
	}
	r.status = StatusActivated
	r.orderID = &orderID
	return nil
}

// Cancel releases an active hold. Cancelling a non-active hold is a no-op.
func (r *ChannelReservation) Cancel() error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	r.status = StatusCancelled
	return nil
}

// Expire marks an overdue active hold as expired.
func (r *ChannelReservation) Expire(now time.Time) error {
	if r.status != StatusActive {
		return ErrNotActive
	}
	if !r.IsDueAt(now) {
		return ErrNotYetDue
	}
	r.status = StatusExpired
	return nil
}
