package types

import (
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/samber/lo"
)

// OrderState mirrors the commerce order lifecycle. The payment pipeline
// itself is external; this service only reacts to the completed transition.
type OrderState string

const (
	OrderStateDraft     OrderState = "draft"
	OrderStateCompleted OrderState = "completed"
	OrderStateCanceled  OrderState = "canceled"
)

func (s OrderState) String() string {
	return string(s)
}

func (s OrderState) Validate() error {
	allowed := []OrderState{
		OrderStateDraft,
		OrderStateCompleted,
		OrderStateCanceled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid order state").
			WithHint("Invalid order state").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"state":   s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
