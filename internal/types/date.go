package types

import (
	"time"

	ierr "github.com/devgate/monetize/internal/errors"
)

// DateFormat is the wire format for user supplied dates
const DateFormat = "2006-01-02"

// ParseDate parses a user supplied date string in UTC
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		// Fall back to full timestamps for API clients that send them.
		t, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Date must be in YYYY-MM-DD format").
			WithReportableDetails(map[string]any{
				"value": value,
			}).
			Mark(ierr.ErrValidation)
	}
	return t.UTC(), nil
}

// EndOfPreviousDay returns 23:59:59 UTC of the day before t. Ending a
// subscription at this instant keeps it out of today's billing day.
func EndOfPreviousDay(t time.Time) time.Time {
	t = t.UTC()
	startOfDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return startOfDay.Add(-time.Second)
}
