package circle

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE KEYS - Day-granular calendar dates, no time-of-day component
// =============================================================================

// DateKeyLayout is the canonical calendar-date format used for record keys,
// StartDate, and the wire format.
const DateKeyLayout = "2006-01-02"

// FormatDateKey renders a time as a canonical YYYY-MM-DD key.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a canonical YYYY-MM-DD key into a UTC midnight time.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// StartOfDay truncates a time to midnight UTC. All day arithmetic in this
// package happens on truncated times so time-of-day skew can never shift a
// day boundary.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one date to another.
// Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}

// AddDays returns the date n days after t, day-truncated.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}
