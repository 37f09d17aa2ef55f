package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type ReservationView struct {
	ID             uuid.UUID   `json:"id"`
	ProductID      uuid.UUID   `json:"product_id"`
	ProductName    string      `json:"product_name"`
	Channel        string      `json:"channel"`
	PartnerID      *uuid.UUID  `json:"partner_id,omitempty"`
	Quantity       int         `json:"quantity"`
	Status         string      `json:"status"`
	ExpiresAt      time.Time   `json:"expires_at"`
	OrderID        *uuid.UUID  `json:"order_id,omitempty"`
	IdempotencyKey string      `json:"idempotency_key"`
	TicketIDs      []uuid.UUID `json:"ticket_ids"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type TicketView struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	ProductID     uuid.UUID  `json:"product_id"`
	Channel       string     `json:"channel"`
	CustomerRef   string     `json:"customer_ref"`
	SlotBookingID *uuid.UUID `json:"slot_booking_id,omitempty"`
	SlotID        *uuid.UUID `json:"slot_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	VerifiedBy    *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ProductAvailabilityView exposes the remaining headroom per channel. The
// figures are a point-in-time snapshot, not a promise a reserve will succeed.
type ProductAvailabilityView struct {
	ProductID   uuid.UUID                 `json:"product_id"`
	Name        string                    `json:"name"`
	Status      string                    `json:"status"`
	SellableCap int                       `json:"sellable_cap"`
	TotalSold   int                       `json:"total_sold"`
	TotalHeld   int                       `json:"total_held"`
	Available   int                       `json:"available"`
	Channels    []ChannelAvailabilityView `json:"channels"`
}

type ChannelAvailabilityView struct {
	Channel   string `json:"channel"`
	Quota     int    `json:"quota"`
	Sold      int    `json:"sold"`
	Held      int    `json:"held"`
	Remaining int    `json:"remaining"`
}

type SlotView struct {
	ID          uuid.UUID `json:"id"`
	VenueID     uuid.UUID `json:"venue_id"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
	Status      string    `json:"status"`
}
