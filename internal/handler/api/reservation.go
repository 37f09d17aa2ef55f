package api

import (
	"errors"
	"net/http"

	"parkgate/internal/domain/lease"
	"parkgate/internal/domain/product"
	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Reserve capacity
// @Description Open a time-bounded hold of product units for a sales channel
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.ReserveRequest true "Reservation request"
// @Success 201 {object} resdto.ReserveResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Idempotency-Key header required",
		})
		return
	}

	var req reqdto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reservationCommands.Reserve(c.Request.Context(), req.ToInput(idempotencyKey))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, errs.ErrIdempotencyConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Idempotency key reused with different parameters",
			})
		case errors.Is(err, product.ErrChannelQuotaExceeded):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Channel quota exceeded",
			})
		case errors.Is(err, product.ErrGlobalCapExceeded):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Sellable cap exceeded",
			})
		case errors.Is(err, product.ErrProductInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Product is not active",
			})
		case errors.Is(err, product.ErrInvalidQuantity),
			errors.Is(err, product.ErrUnknownChannel),
			errors.Is(err, errs.ErrIdempotencyKeyRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
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
	c.JSON(status, resdto.FromReserveResult(result))
}

// @Summary Confirm payment
// @Description Convert an active hold into a committed sale
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ConfirmPaymentRequest true "Payment confirmation"
// @Success 200 {object} resdto.ConfirmPaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) ConfirmPayment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.reservationCommands.ConfirmPayment(c.Request.Context(), id, req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, lease.ErrExpired):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation has expired",
			})
		case errors.Is(err, lease.ErrNotActive):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation is no longer active",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromConfirmPaymentResult(result))
}

// @Summary Cancel reservation
// @Description Release an active hold; cancelling a settled hold is a no-op
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.reservationCommands.Cancel(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, errs.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
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

// @Summary Get reservation
// @Description Get reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondQueryError(c, err, "Reservation not found")
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
