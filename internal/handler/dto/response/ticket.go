package response

import (
	"time"

	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TicketResponse struct {
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

func FromTicketView(view *queries.TicketView) *TicketResponse {
	var resp TicketResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

type BookSlotResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Replayed  bool      `json:"replayed"`
}

func FromBookSlotResult(result *commands.BookSlotResult) *BookSlotResponse {
	var resp BookSlotResponse
	_ = copier.Copy(&resp, result)
	return &resp
}

type VerifyResponse struct {
	VerifiedAt time.Time `json:"verified_at"`
	Replayed   bool      `json:"replayed"`
}

func FromVerifyResult(result *commands.VerifyResult) *VerifyResponse {
	var resp VerifyResponse
	_ = copier.Copy(&resp, result)
	return &resp
}
