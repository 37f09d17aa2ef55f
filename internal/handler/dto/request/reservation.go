package request

import (
	"time"

	"parkgate/internal/domain/product"
	"parkgate/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReserveRequest struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	Channel     string     `json:"channel" binding:"required"`
	PartnerID   *uuid.UUID `json:"partner_id,omitempty"`
	Quantity    int        `json:"quantity" binding:"required,min=1"`
	CustomerRef string     `json:"customer_ref" binding:"required"`
	TTLSeconds  int        `json:"ttl_seconds,omitempty"`
}

func (r ReserveRequest) ToInput(idempotencyKey string) commands.ReserveInput {
	return commands.ReserveInput{
		ProductID:      r.ProductID,
		Channel:        product.Channel(r.Channel),
		PartnerID:      r.PartnerID,
		Quantity:       r.Quantity,
		TTL:            time.Duration(r.TTLSeconds) * time.Second,
		CustomerRef:    r.CustomerRef,
		IdempotencyKey: idempotencyKey,
	}
}

type ConfirmPaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}
