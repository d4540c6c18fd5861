package circle

import "time"

// =============================================================================
// CALENDAR PROJECTOR - Forward projection of upcoming days
// =============================================================================

// DayDescriptor describes one calendar day in the forward projection.
type DayDescriptor struct {
	// Date is the calendar date, midnight UTC.
	Date time.Time

	// DayGlobal is the 1-based day index counted from the start date.
	DayGlobal int

	// IsPayoutDay is true on every CycleDays-th day.
	IsPayoutDay bool

	// CycleOwnerOrder is the Order slot of the member who receives the
	// pot for the cycle this day belongs to. Callers resolve the Member
	// whose Order equals this value.
	CycleOwnerOrder int
}

// GenerateCalendarDays projects daysToShow consecutive days starting at
// startDate. Pure and restartable.
//
// The owning slot for each cycle is taken from the actual member roster,
// sorted by Order, so the calendar and ComputeCycleInfo always agree on
// the rotation length even when the roster differs from TotalMembers.
//
// Returns an empty slice when daysToShow <= 0, the start date is missing
// or malformed, or there are no members to rotate through.
func GenerateCalendarDays(startDate string, daysToShow int, members []Member) []DayDescriptor {
	if daysToShow <= 0 || startDate == "" || len(members) == 0 {
		return []DayDescriptor{}
	}

	start, err := ParseDateKey(startDate)
	if err != nil {
		return []DayDescriptor{}
	}

	sorted := SortedMembers(members)

	days := make([]DayDescriptor, 0, daysToShow)
	for i := 0; i < daysToShow; i++ {
		dayGlobal := i + 1
		cycleIndex := i / CycleDays
		owner := sorted[cycleIndex%len(sorted)]

		days = append(days, DayDescriptor{
			Date:            AddDays(start, i),
			DayGlobal:       dayGlobal,
			IsPayoutDay:     dayGlobal%CycleDays == 0,
			CycleOwnerOrder: owner.Order,
		})
	}
	return days
}
