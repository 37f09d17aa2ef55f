package api

import (
	"errors"
	"net/http"

	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/slot"
	"parkgate/internal/domain/ticket"
	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/handler/middleware"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	bookingCommands      commands.BookingCommands
	verificationCommands commands.VerificationCommands
	ticketQueries        queries.TicketQueries
}

func NewTicketHandler(
	bookingCommands commands.BookingCommands,
	verificationCommands commands.VerificationCommands,
	ticketQueries queries.TicketQueries,
) *TicketHandler {
	return &TicketHandler{
		bookingCommands:      bookingCommands,
		verificationCommands: verificationCommands,
		ticketQueries:        ticketQueries,
	}
}

// @Summary Book a slot
// @Description Bind an activated ticket to an entry slot
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body reqdto.BookSlotRequest true "Slot booking request"
// @Success 201 {object} resdto.BookSlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tickets/{id}/booking [post]
func (h *TicketHandler) BookSlot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.BookSlot(c.Request.Context(), id, req.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		case errors.Is(err, errs.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		case errors.Is(err, slot.ErrSlotFull):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot is full",
			})
		case errors.Is(err, slot.ErrSlotClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot is closed",
			})
		case errors.Is(err, ticket.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Ticket cannot be booked in its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromBookSlotResult(result))
}

// @Summary Cancel slot booking
// @Description Release the slot unit and cancel the ticket
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param bookingId path string true "Booking ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *TicketHandler) CancelBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, errs.ErrSlotBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot booking not found",
			})
		case errors.Is(err, slot.ErrBookingVerified):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking is already verified",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Verify ticket
// @Description Mark a ticket as used at venue entry
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} resdto.VerifyResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /tickets/{id}/verify [post]
func (h *TicketHandler) Verify(c *gin.Context) {
	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.verificationCommands.Verify(c.Request.Context(), operatorID, id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Ticket not found",
			})
		case errors.Is(err, errs.ErrOperatorNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Operator not found",
			})
		case errors.Is(err, operator.ErrOperatorDisabled),
			errors.Is(err, operator.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Operator not authorized for this ticket",
			})
		case errors.Is(err, slot.ErrBookingCancelled):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot booking was cancelled",
			})
		case errors.Is(err, ticket.ErrInvalidTransition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Ticket cannot be verified in its current state",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromVerifyResult(result))
}

// @Summary Get ticket
// @Description Get ticket by ID
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.ticketQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, err, "Ticket not found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketView(view))
}

// @Summary List reservation tickets
// @Description List all tickets created under a reservation
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {array} resdto.TicketResponse
// @Failure 400 {object} map[string]string
// @Router /reservations/{id}/tickets [get]
func (h *TicketHandler) ListByReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	views, err := h.ticketQueries.ListByReservation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.TicketResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromTicketView(view)
	}

	c.JSON(http.StatusOK, response)
}

func respondQueryError(c *gin.Context, err error, notFoundMsg string) {
	if infra.IsKind(err, infra.KindNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFoundMsg,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
