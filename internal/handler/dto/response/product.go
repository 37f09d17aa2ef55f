package response

import (
	"time"

	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

type ChannelAvailabilityResponse struct {
	Channel   string `json:"channel"`
	Quota     int    `json:"quota"`
	Sold      int    `json:"sold"`
	Held      int    `json:"held"`
	Remaining int    `json:"remaining"`
}

type AvailabilityResponse struct {
	ProductID   uuid.UUID                     `json:"product_id"`
	Name        string                        `json:"name"`
	Status      string                        `json:"status"`
	SellableCap int                           `json:"sellable_cap"`
	TotalSold   int                           `json:"total_sold"`
	TotalHeld   int                           `json:"total_held"`
	Available   int                           `json:"available"`
	Channels    []ChannelAvailabilityResponse `json:"channels"`
}

func FromAvailabilityView(view *queries.ProductAvailabilityView) *AvailabilityResponse {
	var resp AvailabilityResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

type SlotResponse struct {
	ID          uuid.UUID `json:"id"`
	VenueID     uuid.UUID `json:"venue_id"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Capacity    int       `json:"capacity"`
	BookedCount int       `json:"booked_count"`
	Status      string    `json:"status"`
}

func FromSlotView(view *queries.SlotView) *SlotResponse {
	var resp SlotResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
