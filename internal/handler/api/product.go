package api

import (
	"net/http"
	"time"

	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productQueries queries.ProductQueries
	slotQueries    queries.SlotQueries
}

func NewProductHandler(productQueries queries.ProductQueries, slotQueries queries.SlotQueries) *ProductHandler {
	return &ProductHandler{
		productQueries: productQueries,
		slotQueries:    slotQueries,
	}
}

// @Summary Product availability
// @Description Point-in-time snapshot of remaining capacity per channel
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id}/availability [get]
func (h *ProductHandler) Availability(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.productQueries.Availability(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, err, "Product not found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Get slot
// @Description Get an entry slot by ID
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id} [get]
func (h *ProductHandler) GetSlot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.slotQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, err, "Slot not found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary List slots
// @Description List a venue's entry slots for a given date
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param venue_id query string true "Venue ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Router /slots [get]
func (h *ProductHandler) ListSlots(c *gin.Context) {
	venueID, err := uuid.Parse(c.Query("venue_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid venue_id format",
		})
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	views, err := h.slotQueries.ListByVenueDate(c.Request.Context(), venueID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SlotResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromSlotView(view)
	}

	c.JSON(http.StatusOK, response)
}
