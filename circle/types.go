/*
Package circle contains the core domain model and calculations for a
rotating savings circle (ROSCA).

PURPOSE:
  A fixed group of members contributes a daily amount. Every CycleDays-long
  cycle, one member receives the accumulated pot; the receiver rotates
  through the group by each member's pre-set Order. This package holds the
  persisted document model plus the pure functions deriving views from it:
  cycle position, forward calendar, payout history, and payment toggling.

DESIGN PRINCIPLES:
  1. Purity: every function here is side-effect free and deterministic.
     Derived views are recomputed on demand, never cached.
  2. Order is the rotation key: rotation depends only on Member.Order,
     never on slice position, so unsorted persisted data cannot skew the
     rotation.
  3. Money uses decimal.Decimal to avoid floating-point errors.

SEE ALSO:
  - cycle.go: cycle position and receiver calculation
  - calendar.go: forward calendar projection
  - history.go: past payout reconstruction
  - mutate.go: payment flag toggling
*/
package circle

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONSTANTS - Fixed circle configuration (not user-editable)
// =============================================================================

const (
	// TotalMembers is the number of members in a circle.
	TotalMembers = 5

	// DailyAmount is the per-member contribution per day.
	DailyAmount = 100

	// CycleDays is the length of one payout cycle in days.
	CycleDays = 15

	// TotalPayout is the full pot handed to the receiver at the end of a
	// cycle: TotalMembers * DailyAmount * CycleDays.
	TotalPayout = TotalMembers * DailyAmount * CycleDays
)

// Pot returns the full cycle pot as a decimal amount.
func Pot() decimal.Decimal {
	return decimal.NewFromInt(TotalPayout)
}

// =============================================================================
// PERSISTED MODEL - The single shared document
// =============================================================================

// Member is one participant in the circle.
type Member struct {
	// ID is an opaque unique identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Order is the rotation slot, 1..N. Unique among current members and
	// the sole key for receiver rotation.
	Order int `json:"order"`

	// Avatar is an optional image reference (data URI or URL). The core
	// only stores the string; encoding happens upstream.
	Avatar string `json:"avatar,omitempty"`
}

// DailyRecord holds the payment flags for one calendar date.
// A date with no record means no payments recorded yet (all false).
type DailyRecord struct {
	// Date is the canonical date key, YYYY-MM-DD.
	Date string `json:"date"`

	// Payments maps member ID to whether that member has paid on Date.
	Payments map[string]bool `json:"payments"`
}

// AppState is the single persisted aggregate. The whole document is
// replaced on every write; there are no partial updates.
type AppState struct {
	Members   []Member               `json:"members"`
	StartDate string                 `json:"startDate"`
	Records   map[string]DailyRecord `json:"records"`
}

// NewAppState returns the zero-value document: no members, no start date,
// no records. This is also what an absent remote document maps to.
func NewAppState() AppState {
	return AppState{
		Members:   []Member{},
		StartDate: "",
		Records:   map[string]DailyRecord{},
	}
}

// Clone returns a deep copy. Records and payment maps are copied so the
// caller can mutate the result without affecting the original.
func (s AppState) Clone() AppState {
	out := AppState{
		Members:   append([]Member(nil), s.Members...),
		StartDate: s.StartDate,
		Records:   make(map[string]DailyRecord, len(s.Records)),
	}
	for key, rec := range s.Records {
		out.Records[key] = rec.clone()
	}
	return out
}

func (r DailyRecord) clone() DailyRecord {
	payments := make(map[string]bool, len(r.Payments))
	for id, paid := range r.Payments {
		payments[id] = paid
	}
	return DailyRecord{Date: r.Date, Payments: payments}
}

// Configured reports whether the circle has been set up: at least one
// member and a start date. Unconfigured is a valid state, not an error.
func (s AppState) Configured() bool {
	return len(s.Members) > 0 && s.StartDate != ""
}

// SortedMembers returns the members sorted ascending by Order. The sort is
// stable so equal orders keep their input sequence, keeping rotation
// deterministic even for invalid duplicate-order data.
func SortedMembers(members []Member) []Member {
	sorted := append([]Member(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
