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

type TopupHandler struct {
	params service.ServiceParams
	log    *logger.Logger
}

func NewTopupHandler(params service.ServiceParams, log *logger.Logger) *TopupHandler {
	return &TopupHandler{
		params: params,
		log:    log,
	}
}

func (h *TopupHandler) topupService() service.TopupService {
	return service.NewTopupService(h.params.WithMessenger(messenger.NewRecorder()))
}

// @Summary Create a top-up
// @Description Queue a balance top-up for a developer
// @Tags Topups
// @Accept json
// @Produce json
// @Param topup body dto.CreateTopupRequest true "Top-up request"
// @Success 201 {object} dto.TopupResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /topups [post]
func (h *TopupHandler) CreateTopup(c *gin.Context) {
	var req dto.CreateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.topupService().CreateTopup(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a top-up
// @Description Get a top-up by ID
// @Tags Topups
// @Produce json
// @Param id path string true "Top-up ID"
// @Success 200 {object} dto.TopupResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /topups/{id} [get]
func (h *TopupHandler) GetTopup(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("topup ID is required").
			WithHint("Top-up ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.topupService().GetTopup(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List top-ups
// @Description List top-ups with optional filtering
// @Tags Topups
// @Produce json
// @Param filter query types.TopupFilter false "Filter"
// @Success 200 {object} dto.ListTopupsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /topups [get]
func (h *TopupHandler) ListTopups(c *gin.Context) {
	var filter types.TopupFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.topupService().ListTopups(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
