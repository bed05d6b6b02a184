package v1

import (
	"net/http"

	"github.com/devgate/monetize/internal/api/dto"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/service"
	"github.com/devgate/monetize/internal/types"
	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	params service.ServiceParams
	log    *logger.Logger
}

func NewSubscriptionHandler(params service.ServiceParams, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		params: params,
		log:    log,
	}
}

// subscriptionService builds a service bound to a request-scoped message
// recorder so purchase and cancellation messages surface in the response.
func (h *SubscriptionHandler) subscriptionService() service.SubscriptionService {
	return service.NewSubscriptionService(h.params.WithMessenger(messenger.NewRecorder()))
}

// @Summary Subscribe to a rate plan
// @Description Purchase a rate plan for a developer, starting now or on a future date
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.SubscribeRequest true "Subscription request"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.subscriptionService().Subscribe(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Cancel a subscription
// @Description End a subscription immediately or on a future date
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param cancellation body dto.UnsubscribeRequest true "Cancellation request"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("subscription ID is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.subscriptionService().Unsubscribe(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a subscription
// @Description Get a subscription by ID
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("subscription ID is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.subscriptionService().GetSubscription(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List subscriptions
// @Description List subscriptions with optional filtering
// @Tags Subscriptions
// @Produce json
// @Param filter query types.SubscriptionFilter false "Filter"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	var filter types.SubscriptionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.subscriptionService().ListSubscriptions(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
