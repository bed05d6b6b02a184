package rateplan

import (
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/shopspring/decimal"
)

// RatePlan is a billing plan definition a developer can subscribe to.
// Plans are immutable once created; pricing changes are rolled out as new
// plans rather than edits to existing ones.
type RatePlan struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	DisplayName  string          `db:"display_name" json:"display_name"`
	Currency     string          `db:"currency" json:"currency"`
	SetupFee     decimal.Decimal `db:"setup_fee" json:"setup_fee"`
	RecurringFee decimal.Decimal `db:"recurring_fee" json:"recurring_fee"`
	types.BaseModel
}

func (p *RatePlan) TableName() string {
	return "rate_plans"
}

func (p *RatePlan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Rate plan name is required").
			Mark(ierr.ErrValidation)
	}

	if !types.ValidateCurrencyCode(p.Currency) {
		return ierr.NewError("invalid currency code").
			WithHint("Currency must be a 3 letter ISO code").
			WithReportableDetails(map[string]any{
				"currency": p.Currency,
			}).
			Mark(ierr.ErrValidation)
	}

	if p.SetupFee.IsNegative() || p.RecurringFee.IsNegative() {
		return ierr.NewError("fees must not be negative").
			WithHint("Plan fees must not be negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}
