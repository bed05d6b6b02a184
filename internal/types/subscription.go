package types

import (
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/samber/lo"
)

// ScheduleType selects whether a subscription boundary (start or end)
// takes effect immediately or on a user supplied future date.
type ScheduleType string

const (
	ScheduleTypeNow    ScheduleType = "now"
	ScheduleTypeOnDate ScheduleType = "on_date"
)

func (t ScheduleType) String() string {
	return string(t)
}

func (t ScheduleType) Validate() error {
	allowed := []ScheduleType{
		ScheduleTypeNow,
		ScheduleTypeOnDate,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid schedule type").
			WithHint("Schedule type must be one of 'now' or 'on_date'").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionFilter defines the filter parameters for listing subscriptions
type SubscriptionFilter struct {
	*QueryFilter
	*TimeRangeFilter

	DeveloperID string `json:"developer_id,omitempty" form:"developer_id"`
	RatePlanID  string `json:"rate_plan_id,omitempty" form:"rate_plan_id"`
	ActiveOnly  bool   `json:"active_only,omitempty" form:"active_only"`
}

func (f *SubscriptionFilter) Validate() error {
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
	return nil
}

func (f *SubscriptionFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

func (f *SubscriptionFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

func (f *SubscriptionFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

func (f *SubscriptionFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

func (f *SubscriptionFilter) GetStatus() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *SubscriptionFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
