package dto

import (
	"context"

	"github.com/devgate/monetize/internal/domain/order"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/devgate/monetize/internal/validator"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one line item in a draft order. Amount overrides
// the product price and is only honored for products that allow custom
// amounts.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

// CreateOrderRequest represents the request to create a draft order
type CreateOrderRequest struct {
	DeveloperID string             `json:"developer_id" binding:"required"`
	Items       []OrderItemRequest `json:"items" binding:"required"`
}

func (r *CreateOrderRequest) Validate() error {
	if r.DeveloperID == "" {
		return ierr.NewError("developer_id cannot be empty").
			WithHint("Developer is required").
			Mark(ierr.ErrValidation)
	}
	if len(r.Items) == 0 {
		return ierr.NewError("order must have at least one line item").
			WithHint("Order must have at least one line item").
			Mark(ierr.ErrValidation)
	}
	for _, item := range r.Items {
		if item.ProductID == "" {
			return ierr.NewError("product_id cannot be empty").
				WithHint("Every line item needs a product").
				Mark(ierr.ErrValidation)
		}
	}

	return validator.ValidateRequest(r)
}

// ToOrder converts the request to a draft domain order. Line item amounts
// are resolved by the checkout service against product pricing rules.
func (r *CreateOrderRequest) ToOrder(ctx context.Context) *order.Order {
	return &order.Order{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
		Number:      types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_ORDER),
		DeveloperID: r.DeveloperID,
		State:       types.OrderStateDraft,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	order.Order
	Topups []*TopupResponse `json:"topups,omitempty"`
}

// NewOrderResponse creates a response from a domain order
func NewOrderResponse(o *order.Order) *OrderResponse {
	if o == nil {
		return nil
	}

	return &OrderResponse{
		Order: *o,
	}
}

// WithTopups attaches the top-ups created for this order
func (r *OrderResponse) WithTopups(topups []*TopupResponse) *OrderResponse {
	if r == nil {
		return nil
	}
	r.Topups = topups
	return r
}
