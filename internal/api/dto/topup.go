package dto

import (
	"context"

	"github.com/devgate/monetize/internal/domain/topup"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/devgate/monetize/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateTopupRequest represents the request to enqueue a balance top-up
type CreateTopupRequest struct {
	DeveloperID string                `json:"developer_id" binding:"required"`
	Amount      decimal.Decimal       `json:"amount" binding:"required"`
	Currency    string                `json:"currency" binding:"required"`
	OrderID     string                `json:"order_id" binding:"required"`
	Scope       types.AdjustmentScope `json:"scope,omitempty"`
	Metadata    types.Metadata        `json:"metadata,omitempty"`
}

func (r *CreateTopupRequest) Validate() error {
	if r.DeveloperID == "" {
		return ierr.NewError("developer_id cannot be empty").
			WithHint("Developer is required").
			Mark(ierr.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be greater than zero").
			WithHint("Top-up amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount,
			}).
			Mark(ierr.ErrValidation)
	}
	if !types.ValidateCurrencyCode(r.Currency) {
		return ierr.NewError("invalid currency code").
			WithHint("Currency must be a 3 letter ISO code").
			Mark(ierr.ErrValidation)
	}
	if r.OrderID == "" {
		return ierr.NewError("order_id cannot be empty").
			WithHint("Source order is required").
			Mark(ierr.ErrValidation)
	}
	if r.Scope != "" {
		if err := r.Scope.Validate(); err != nil {
			return err
		}
	}

	return validator.ValidateRequest(r)
}

// ToTopup converts the request to a domain top-up in the pending state
func (r *CreateTopupRequest) ToTopup(ctx context.Context) *topup.Topup {
	scope := r.Scope
	if scope == "" {
		scope = types.AdjustmentScopeDeveloper
	}

	return &topup.Topup{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TOPUP),
		DeveloperID: r.DeveloperID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		OrderID:     r.OrderID,
		Scope:       scope,
		TopupStatus: types.TopupStatusPending,
		Metadata:    r.Metadata,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// TopupResponse represents a top-up in responses
type TopupResponse struct {
	topup.Topup
}

// NewTopupResponse creates a response from a domain top-up
func NewTopupResponse(t *topup.Topup) *TopupResponse {
	if t == nil {
		return nil
	}

	return &TopupResponse{
		Topup: *t,
	}
}

// ListTopupsResponse represents the response for listing top-ups
type ListTopupsResponse = types.ListResponse[*TopupResponse]
