package circle

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CYCLE CALCULATOR - Which cycle/day/receiver is it?
// =============================================================================

// CycleInfo describes the circle's position at a point in time. Derived,
// never persisted.
type CycleInfo struct {
	// CycleNumber is the 1-based cycle index since the start date.
	CycleNumber int

	// DayInCycle is the 1-based day within the current cycle, in
	// [1, CycleDays].
	DayInCycle int

	// DaysUntilPayout is how many days remain until this cycle pays out.
	// Zero on the payout day itself.
	DaysUntilPayout int

	// CurrentReceiver is the member who receives this cycle's pot.
	CurrentReceiver Member

	// IsPayoutDay is true on the last day of the cycle.
	IsPayoutDay bool

	// TotalPot is the full payout amount.
	TotalPot decimal.Decimal
}

// ComputeCycleInfo maps (startDate, asOf, members) to the circle's current
// position. The ok result is false when the circle is not configured or
// has not started yet: empty members, missing or malformed startDate, or
// asOf strictly before the start date. That is a valid "not started"
// state, not an error.
//
// Both dates are truncated to midnight UTC before diffing. The receiver is
// chosen from the members sorted ascending by Order:
//
//	receiver = sorted[(cycleNumber-1) mod len(sorted)]
//
// so cycle 1 goes to the lowest order, and the rotation wraps after a full
// pass through the group.
func ComputeCycleInfo(startDate string, asOf time.Time, members []Member) (CycleInfo, bool) {
	if len(members) == 0 || startDate == "" {
		return CycleInfo{}, false
	}

	start, err := ParseDateKey(startDate)
	if err != nil {
		return CycleInfo{}, false
	}

	diffDays := DaysBetween(start, asOf)
	if diffDays < 0 {
		return CycleInfo{}, false
	}

	cycleNumber := diffDays/CycleDays + 1
	dayInCycle := diffDays%CycleDays + 1

	sorted := SortedMembers(members)
	receiver := sorted[(cycleNumber-1)%len(sorted)]

	return CycleInfo{
		CycleNumber:     cycleNumber,
		DayInCycle:      dayInCycle,
		DaysUntilPayout: CycleDays - dayInCycle,
		CurrentReceiver: receiver,
		IsPayoutDay:     dayInCycle == CycleDays,
		TotalPot:        Pot(),
	}, true
}
