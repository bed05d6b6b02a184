package topup

import (
	"time"

	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/shopspring/decimal"
)

// Topup is one queued balance adjustment created from a completed
// commerce order. It is retained after execution for audit and operator
// inspection; a failed top-up is resubmitted as a new row.
type Topup struct {
	ID           string                `db:"id" json:"id"`
	DeveloperID  string                `db:"developer_id" json:"developer_id"`
	Amount       decimal.Decimal       `db:"amount" json:"amount"`
	Currency     string                `db:"currency" json:"currency"`
	OrderID      string                `db:"order_id" json:"order_id"`
	Scope        types.AdjustmentScope `db:"scope" json:"scope"`
	TopupStatus  types.TopupStatus     `db:"topup_status" json:"topup_status"`
	ErrorSummary *string               `db:"error_summary" json:"error_summary,omitempty"`
	StartedAt    *time.Time            `db:"started_at" json:"started_at,omitempty"`
	CompletedAt  *time.Time            `db:"completed_at" json:"completed_at,omitempty"`
	FailedAt     *time.Time            `db:"failed_at" json:"failed_at,omitempty"`
	Metadata     types.Metadata        `db:"metadata" json:"metadata,omitempty"`
	types.BaseModel
}

func (t *Topup) TableName() string {
	return "topups"
}

func (t *Topup) Validate() error {
	if t.DeveloperID == "" {
		return ierr.NewError("developer_id is required").
			WithHint("Developer is required").
			Mark(ierr.ErrValidation)
	}

	if !t.Amount.IsPositive() {
		return ierr.NewError("amount must be greater than zero").
			WithHint("Top-up amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": t.Amount,
			}).
			Mark(ierr.ErrValidation)
	}

	if !types.ValidateCurrencyCode(t.Currency) {
		return ierr.NewError("invalid currency code").
			WithHint("Currency must be a 3 letter ISO code").
			WithReportableDetails(map[string]any{
				"currency": t.Currency,
			}).
			Mark(ierr.ErrValidation)
	}

	if t.OrderID == "" {
		return ierr.NewError("order_id is required").
			WithHint("Source order is required").
			Mark(ierr.ErrValidation)
	}

	if err := t.Scope.Validate(); err != nil {
		return err
	}

	return t.TopupStatus.Validate()
}

// IsDeveloperAdjustment reports whether this top-up adjusts a developer
// level prepaid balance. Only these reach the developer balance endpoint.
func (t *Topup) IsDeveloperAdjustment() bool {
	return t.Scope.IsDeveloper()
}
