package subscription

import (
	"time"

	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
)

// Subscription binds a developer to a rate plan for a validity window.
// EndDate is nil while the subscription is open ended.
type Subscription struct {
	ID          string     `db:"id" json:"id"`
	DeveloperID string     `db:"developer_id" json:"developer_id"`
	RatePlanID  string     `db:"rate_plan_id" json:"rate_plan_id"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	types.BaseModel
}

func (s *Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) Validate() error {
	if s.DeveloperID == "" {
		return ierr.NewError("developer_id is required").
			WithHint("Developer is required").
			Mark(ierr.ErrValidation)
	}

	if s.RatePlanID == "" {
		return ierr.NewError("rate_plan_id is required").
			WithHint("Rate plan is required").
			Mark(ierr.ErrValidation)
	}

	if s.StartDate.IsZero() {
		return ierr.NewError("start_date is required").
			WithHint("Start date is required").
			Mark(ierr.ErrValidation)
	}

	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		// An end of previous day set on the same day a plan started is the
		// one legitimate case of EndDate < StartDate, so only reject ends
		// before the start's calendar day.
		startDay := time.Date(
			s.StartDate.Year(), s.StartDate.Month(), s.StartDate.Day(),
			0, 0, 0, 0, time.UTC,
		)
		if s.EndDate.Before(startDay.Add(-24 * time.Hour)) {
			return ierr.NewError("end_date must not precede start_date").
				WithHint("End date must not precede the start date").
				WithReportableDetails(map[string]any{
					"start_date": s.StartDate,
					"end_date":   s.EndDate,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// IsActiveAt reports whether the subscription covers the given instant
func (s *Subscription) IsActiveAt(t time.Time) bool {
	if t.Before(s.StartDate) {
		return false
	}
	if s.EndDate != nil && t.After(*s.EndDate) {
		return false
	}
	return true
}
