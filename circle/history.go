package circle

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HISTORY RECONSTRUCTOR - Past payouts re-derived from periodicity
// =============================================================================

// PayoutEvent is one completed (or today-completing) cycle payout.
// Derived, never persisted.
type PayoutEvent struct {
	Cycle    int
	Date     time.Time
	Receiver Member
	Amount   decimal.Decimal
}

// ReconstructHistory re-derives every payout from cycle 1 through the
// latest cycle whose payout date is on or before now, most recent first.
//
// The payout date of cycle k is the cycle's last day:
//
//	startDate + (k*CycleDays - 1) days
//
// A payout landing exactly on now's date is included; strictly future ones
// stop the scan. Receivers follow the same ascending-Order rotation as
// ComputeCycleInfo. Returns an empty slice when the circle is not
// configured.
func ReconstructHistory(startDate string, members []Member, now time.Time) []PayoutEvent {
	if startDate == "" || len(members) == 0 {
		return []PayoutEvent{}
	}

	start, err := ParseDateKey(startDate)
	if err != nil {
		return []PayoutEvent{}
	}

	sorted := SortedMembers(members)
	today := StartOfDay(now)

	var events []PayoutEvent
	for cycle := 1; ; cycle++ {
		payoutDate := AddDays(start, cycle*CycleDays-1)
		if payoutDate.After(today) {
			break
		}

		events = append(events, PayoutEvent{
			Cycle:    cycle,
			Date:     payoutDate,
			Receiver: sorted[(cycle-1)%len(sorted)],
			Amount:   Pot(),
		})
	}

	// Latest cycle first for presentation.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	if events == nil {
		events = []PayoutEvent{}
	}
	return events
}

// TotalDisbursed returns the sum paid out across the given events.
func TotalDisbursed(events []PayoutEvent) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		total = total.Add(e.Amount)
	}
	return total
}
