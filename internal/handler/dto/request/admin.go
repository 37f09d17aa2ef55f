package request

import (
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/product"
	"parkgate/internal/usecase/commands"

	"github.com/google/uuid"
)

type ChannelAllocationsRequest struct {
	Online int `json:"online" binding:"min=0"`
	OTA    int `json:"ota" binding:"min=0"`
	Onsite int `json:"onsite" binding:"min=0"`
}

func (r ChannelAllocationsRequest) toDomain() product.ChannelAllocations {
	return product.ChannelAllocations{Online: r.Online, OTA: r.OTA, Onsite: r.Onsite}
}

type CreateProductRequest struct {
	Name        string                    `json:"name" binding:"required"`
	SellableCap int                       `json:"sellable_cap" binding:"min=0"`
	Allocations ChannelAllocationsRequest `json:"allocations"`
}

func (r CreateProductRequest) ToInput() commands.CreateProductInput {
	return commands.CreateProductInput{
		Name:        r.Name,
		SellableCap: r.SellableCap,
		Allocations: r.Allocations.toDomain(),
	}
}

type AdjustCapsRequest struct {
	SellableCap int                       `json:"sellable_cap" binding:"min=0"`
	Allocations ChannelAllocationsRequest `json:"allocations"`
}

func (r AdjustCapsRequest) ToInput(productID uuid.UUID) commands.AdjustCapsInput {
	return commands.AdjustCapsInput{
		ProductID:   productID,
		SellableCap: r.SellableCap,
		Allocations: r.Allocations.toDomain(),
	}
}

type CreateSlotRequest struct {
	VenueID  uuid.UUID `json:"venue_id" binding:"required"`
	Date     time.Time `json:"date" binding:"required"`
	Start    time.Time `json:"start_time" binding:"required"`
	End      time.Time `json:"end_time" binding:"required"`
	Capacity int       `json:"capacity" binding:"required,min=1"`
}

func (r CreateSlotRequest) ToInput() commands.CreateSlotInput {
	return commands.CreateSlotInput{
		VenueID:  r.VenueID,
		Date:     r.Date,
		Start:    r.Start,
		End:      r.End,
		Capacity: r.Capacity,
	}
}

type CreateOperatorRequest struct {
	Username  string     `json:"username" binding:"required"`
	Password  string     `json:"password" binding:"required,min=8"`
	Type      string     `json:"type" binding:"required"`
	PartnerID *uuid.UUID `json:"partner_id,omitempty"`
}

func (r CreateOperatorRequest) ToInput() commands.CreateOperatorInput {
	return commands.CreateOperatorInput{
		Username:  r.Username,
		Password:  r.Password,
		Type:      operator.Type(r.Type),
		PartnerID: r.PartnerID,
	}
}
