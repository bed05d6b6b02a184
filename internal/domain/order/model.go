package order

import (
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/shopspring/decimal"
)

// Product is a purchasable item in the store. Add-credit products turn a
// completed purchase into a balance top-up for the buying developer.
type Product struct {
	ID                  string          `db:"id" json:"id"`
	Title               string          `db:"title" json:"title"`
	Price               decimal.Decimal `db:"price" json:"price"`
	Currency            string          `db:"currency" json:"currency"`
	AddCreditEnabled    bool            `db:"add_credit_enabled" json:"add_credit_enabled"`
	CustomAmountAllowed bool            `db:"custom_amount_allowed" json:"custom_amount_allowed"`
	MinimumAmount       decimal.Decimal `db:"minimum_amount" json:"minimum_amount"`
	SkipCart            bool            `db:"skip_cart" json:"skip_cart"`
	types.BaseModel
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) Validate() error {
	if p.Title == "" {
		return ierr.NewError("title is required").
			WithHint("Product title is required").
			Mark(ierr.ErrValidation)
	}

	if p.Price.IsNegative() {
		return ierr.NewError("price must not be negative").
			WithHint("Product price must not be negative").
			Mark(ierr.ErrValidation)
	}

	if !types.ValidateCurrencyCode(p.Currency) {
		return ierr.NewError("invalid currency code").
			WithHint("Currency must be a 3 letter ISO code").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// LineItem is one purchased product within an order, priced at the unit
// amount the buyer paid (which may differ from the product price when
// custom amounts are allowed).
type LineItem struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Currency  string          `db:"currency" json:"currency"`
}

// Order is a minimal view of a commerce order: enough to detect the
// completed transition and derive top-ups from credit line items. The
// cart, payment and fulfillment pipeline live outside this service.
type Order struct {
	ID          string           `db:"id" json:"id"`
	Number      string           `db:"number" json:"number"`
	DeveloperID string           `db:"developer_id" json:"developer_id"`
	State       types.OrderState `db:"state" json:"state"`
	Items       []LineItem       `db:"-" json:"items"`
	types.BaseModel
}

func (o *Order) TableName() string {
	return "orders"
}

func (o *Order) Validate() error {
	if o.DeveloperID == "" {
		return ierr.NewError("developer_id is required").
			WithHint("Developer is required").
			Mark(ierr.ErrValidation)
	}

	if err := o.State.Validate(); err != nil {
		return err
	}

	if len(o.Items) == 0 {
		return ierr.NewError("order must have at least one line item").
			WithHint("Order must have at least one line item").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Total returns the sum of line item amounts
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	return total
}
