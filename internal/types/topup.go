package types

import (
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/samber/lo"
)

// TopupStatus represents the execution state of a balance top-up.
// Transitions are monotonic: PENDING -> RUNNING -> FINISHED or FAILED.
// FINISHED and FAILED are terminal; a failed top-up is resubmitted as a
// new top-up with a fresh id.
type TopupStatus string

const (
	TopupStatusPending  TopupStatus = "PENDING"
	TopupStatusRunning  TopupStatus = "RUNNING"
	TopupStatusFinished TopupStatus = "FINISHED"
	TopupStatusFailed   TopupStatus = "FAILED"
)

func (s TopupStatus) String() string {
	return string(s)
}

func (s TopupStatus) Validate() error {
	allowed := []TopupStatus{
		TopupStatusPending,
		TopupStatusRunning,
		TopupStatusFinished,
		TopupStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid topup status").
			WithHint("Invalid topup status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsTerminal reports whether no further transition is allowed
func (s TopupStatus) IsTerminal() bool {
	return s == TopupStatusFinished || s == TopupStatusFailed
}

// CanTransitionTo reports whether the transition from s to target is allowed
func (s TopupStatus) CanTransitionTo(target TopupStatus) bool {
	allowedTransitions := map[TopupStatus][]TopupStatus{
		TopupStatusPending: {
			TopupStatusRunning,
		},
		TopupStatusRunning: {
			TopupStatusFinished,
			TopupStatusFailed,
		},
	}

	allowed, ok := allowedTransitions[s]
	if !ok {
		return false
	}
	return lo.Contains(allowed, target)
}

// AdjustmentScope identifies whose balance a top-up adjusts. Only
// developer scoped adjustments reach the developer balance endpoint;
// company scoped adjustments are handled by a separate billing surface.
type AdjustmentScope string

const (
	AdjustmentScopeDeveloper AdjustmentScope = "DEVELOPER"
	AdjustmentScopeCompany   AdjustmentScope = "COMPANY"
)

func (s AdjustmentScope) String() string {
	return string(s)
}

// IsDeveloper reports whether the adjustment targets a developer balance
func (s AdjustmentScope) IsDeveloper() bool {
	return s == AdjustmentScopeDeveloper
}

func (s AdjustmentScope) Validate() error {
	allowed := []AdjustmentScope{
		AdjustmentScopeDeveloper,
		AdjustmentScopeCompany,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid adjustment scope").
			WithHint("Invalid adjustment scope").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"scope":   s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TopupFilter defines the filter parameters for listing top-ups
type TopupFilter struct {
	*QueryFilter
	*TimeRangeFilter

	DeveloperID string       `json:"developer_id,omitempty" form:"developer_id"`
	OrderID     string       `json:"order_id,omitempty" form:"order_id"`
	TopupStatus *TopupStatus `json:"topup_status,omitempty" form:"topup_status"`
}

func (f *TopupFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TopupStatus != nil {
		if err := f.TopupStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f *TopupFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *TopupFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

func (f *TopupFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

func (f *TopupFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

func (f *TopupFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *TopupFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
