package api

import (
	"errors"
	"net/http"

	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/slot"
	reqdto "parkgate/internal/handler/dto/request"
	resdto "parkgate/internal/handler/dto/response"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminCommands commands.AdminCommands
}

func NewAdminHandler(adminCommands commands.AdminCommands) *AdminHandler {
	return &AdminHandler{adminCommands: adminCommands}
}

// @Summary Create product
// @Description Register a sellable product with its cap and channel allocations
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateProductRequest true "Product definition"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Router /admin/products [post]
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req reqdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.adminCommands.CreateProduct(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, product.ErrEmptyName),
			errors.Is(err, product.ErrInvalidCap),
			errors.Is(err, product.ErrInvalidAllocation):
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

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Adjust product caps
// @Description Replace the product's cap and allocations; shrinking below committed units is rejected
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body reqdto.AdjustCapsRequest true "New caps"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/products/{id}/caps [put]
func (h *AdminHandler) AdjustCaps(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.AdjustCapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.adminCommands.AdjustCaps(c.Request.Context(), req.ToInput(id)); err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, product.ErrCapBelowInUse),
			errors.Is(err, product.ErrQuotaBelowInUse):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, product.ErrInvalidCap),
			errors.Is(err, product.ErrInvalidAllocation):
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

	c.Status(http.StatusNoContent)
}

// @Summary Create slot
// @Description Register an entry slot for a venue
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Slot definition"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/slots [post]
func (h *AdminHandler) CreateSlot(c *gin.Context) {
	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	id, err := h.adminCommands.CreateSlot(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, slot.ErrInvalidCapacity),
			errors.Is(err, slot.ErrInvalidWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case infra.IsKind(err, infra.KindDuplicateKey):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot already exists for this venue and start time",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Create operator
// @Description Register a verification operator
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOperatorRequest true "Operator definition"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/operators [post]
func (h *AdminHandler) CreateOperator(c *gin.Context) {
	var req reqdto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	input := req.ToInput()
	if !input.Type.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid operator type",
		})
		return
	}

	id, err := h.adminCommands.CreateOperator(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, operator.ErrEmptyUsername),
			errors.Is(err, operator.ErrPartnerRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case infra.IsKind(err, infra.KindDuplicateKey):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Username already taken",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}
