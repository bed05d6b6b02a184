package v1

import (
	"net/http"

	"github.com/devgate/monetize/internal/api/dto"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/service"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	params service.ServiceParams
	log    *logger.Logger
}

func NewCheckoutHandler(params service.ServiceParams, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		params: params,
		log:    log,
	}
}

func (h *CheckoutHandler) checkoutService() service.CheckoutService {
	return service.NewCheckoutService(h.params.WithMessenger(messenger.NewRecorder()))
}

// @Summary Create an order
// @Description Create a draft order for add-credit products
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order request"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /orders [post]
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.checkoutService().CreateOrder(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Complete an order
// @Description Mark a draft order completed and queue top-ups for its credit items
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /orders/{id}/complete [post]
func (h *CheckoutHandler) CompleteOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("order ID is required").
			WithHint("Order ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.checkoutService().CompleteOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an order
// @Description Get an order by ID
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /orders/{id} [get]
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("order ID is required").
			WithHint("Order ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.checkoutService().GetOrder(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
