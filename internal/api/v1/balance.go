package v1

import (
	"net/http"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/billing"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	balances billing.BalanceService
	log      *logger.Logger
}

func NewBalanceHandler(balances billing.BalanceService, log *logger.Logger) *BalanceHandler {
	return &BalanceHandler{
		balances: balances,
		log:      log,
	}
}

// @Summary Get a developer balance
// @Description Get a developer's prepaid balance for a currency
// @Tags Balances
// @Produce json
// @Param id path string true "Developer ID"
// @Param currency path string true "Currency code"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /developers/{id}/balances/{currency} [get]
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	developerID := c.Param("id")
	currency := c.Param("currency")
	if developerID == "" || currency == "" {
		c.Error(ierr.NewError("developer ID and currency are required").
			WithHint("Developer ID and currency are required").
			Mark(ierr.ErrValidation))
		return
	}

	balance, err := h.balances.Get(c.Request.Context(), developerID, currency)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBalanceResponse(balance))
}
