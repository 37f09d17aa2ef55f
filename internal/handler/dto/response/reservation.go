package response

import (
	"time"

	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReserveResponse struct {
	ReservationID uuid.UUID   `json:"reservation_id"`
	ExpiresAt     time.Time   `json:"expires_at"`
	TicketIDs     []uuid.UUID `json:"ticket_ids"`
	Replayed      bool        `json:"replayed"`
}

func FromReserveResult(result *commands.ReserveResult) *ReserveResponse {
	var resp ReserveResponse
	_ = copier.Copy(&resp, result)
	return &resp
}

type ConfirmPaymentResponse struct {
	TicketIDs []uuid.UUID `json:"ticket_ids"`
	Replayed  bool        `json:"replayed"`
}

func FromConfirmPaymentResult(result *commands.ConfirmPaymentResult) *ConfirmPaymentResponse {
	var resp ConfirmPaymentResponse
	_ = copier.Copy(&resp, result)
	return &resp
}

type ReservationResponse struct {
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

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	var resp ReservationResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
