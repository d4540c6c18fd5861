package circle_test

import (
	"testing"
	"time"

	"github.com/warp/circle-engine/circle"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func fiveMembers() []circle.Member {
	return []circle.Member{
		{ID: "m1", Name: "Anan", Order: 1},
		{ID: "m2", Name: "Boon", Order: 2},
		{ID: "m3", Name: "Chai", Order: 3},
		{ID: "m4", Name: "Dara", Order: 4},
		{ID: "m5", Name: "Ekachai", Order: 5},
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// CYCLE POSITION TESTS
// =============================================================================

func TestComputeCycleInfo_Example_Day20(t *testing.T) {
	// GIVEN: circle started 2024-01-01, five members ordered 1..5
	// WHEN: asking for 2024-01-20 (diffDays = 19)
	// THEN: cycle 2, day 5, 10 days until payout, receiver has order 2

	info, ok := circle.ComputeCycleInfo("2024-01-01", day(2024, time.January, 20), fiveMembers())
	if !ok {
		t.Fatal("expected configured cycle info")
	}

	if info.CycleNumber != 2 {
		t.Errorf("cycle number = %d, want 2", info.CycleNumber)
	}
	if info.DayInCycle != 5 {
		t.Errorf("day in cycle = %d, want 5", info.DayInCycle)
	}
	if info.DaysUntilPayout != 10 {
		t.Errorf("days until payout = %d, want 10", info.DaysUntilPayout)
	}
	if info.CurrentReceiver.Order != 2 {
		t.Errorf("receiver order = %d, want 2", info.CurrentReceiver.Order)
	}
	if info.IsPayoutDay {
		t.Error("day 5 must not be a payout day")
	}
	if info.TotalPot.String() != "7500" {
		t.Errorf("total pot = %s, want 7500", info.TotalPot)
	}
}

func TestComputeCycleInfo_FirstDay(t *testing.T) {
	// GIVEN: the circle starts today
	// WHEN: asking for the start date itself
	// THEN: cycle 1 day 1, receiver is the order-1 member

	info, ok := circle.ComputeCycleInfo("2024-01-01", day(2024, time.January, 1), fiveMembers())
	if !ok {
		t.Fatal("expected configured cycle info")
	}
	if info.CycleNumber != 1 || info.DayInCycle != 1 {
		t.Errorf("got cycle %d day %d, want cycle 1 day 1", info.CycleNumber, info.DayInCycle)
	}
	if info.CurrentReceiver.ID != "m1" {
		t.Errorf("receiver = %s, want m1", info.CurrentReceiver.ID)
	}
}

func TestComputeCycleInfo_PayoutDay(t *testing.T) {
	// Day 15 of cycle 1 is 2024-01-15.
	info, ok := circle.ComputeCycleInfo("2024-01-01", day(2024, time.January, 15), fiveMembers())
	if !ok {
		t.Fatal("expected configured cycle info")
	}
	if !info.IsPayoutDay {
		t.Error("day 15 must be a payout day")
	}
	if info.DaysUntilPayout != 0 {
		t.Errorf("days until payout = %d, want 0", info.DaysUntilPayout)
	}
}

func TestComputeCycleInfo_NotStarted(t *testing.T) {
	cases := []struct {
		name      string
		startDate string
		asOf      time.Time
		members   []circle.Member
	}{
		{"asOf before start", "2024-01-10", day(2024, time.January, 9), fiveMembers()},
		{"empty members", "2024-01-01", day(2024, time.January, 20), nil},
		{"missing start date", "", day(2024, time.January, 20), fiveMembers()},
		{"malformed start date", "01/01/2024", day(2024, time.January, 20), fiveMembers()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := circle.ComputeCycleInfo(tc.startDate, tc.asOf, tc.members); ok {
				t.Error("expected not-started sentinel")
			}
		})
	}
}

func TestComputeCycleInfo_DayInCycleRange(t *testing.T) {
	// Property: for every day across four full rotations, dayInCycle is in
	// [1, CycleDays] and isPayoutDay holds exactly on day CycleDays.

	members := fiveMembers()
	start := day(2024, time.January, 1)
	for offset := 0; offset < 4*circle.TotalMembers*circle.CycleDays; offset++ {
		info, ok := circle.ComputeCycleInfo("2024-01-01", start.AddDate(0, 0, offset), members)
		if !ok {
			t.Fatalf("offset %d: expected configured info", offset)
		}
		if info.DayInCycle < 1 || info.DayInCycle > circle.CycleDays {
			t.Fatalf("offset %d: day in cycle %d out of range", offset, info.DayInCycle)
		}
		if info.IsPayoutDay != (info.DayInCycle == circle.CycleDays) {
			t.Fatalf("offset %d: payout flag inconsistent with day %d", offset, info.DayInCycle)
		}
		if info.DaysUntilPayout != circle.CycleDays-info.DayInCycle {
			t.Fatalf("offset %d: days until payout %d inconsistent", offset, info.DaysUntilPayout)
		}
	}
}

func TestComputeCycleInfo_FullRotationPeriodicity(t *testing.T) {
	// GIVEN: cycle k and cycle k+N (N = member count)
	// WHEN: comparing receivers
	// THEN: they are identical - a full rotation is idempotent

	members := fiveMembers()
	start := day(2024, time.January, 1)
	for k := 0; k < 10; k++ {
		a, _ := circle.ComputeCycleInfo("2024-01-01", start.AddDate(0, 0, k*circle.CycleDays), members)
		b, _ := circle.ComputeCycleInfo("2024-01-01", start.AddDate(0, 0, (k+len(members))*circle.CycleDays), members)
		if a.CurrentReceiver.ID != b.CurrentReceiver.ID {
			t.Errorf("cycle %d receiver %s != cycle %d receiver %s",
				a.CycleNumber, a.CurrentReceiver.ID, b.CycleNumber, b.CurrentReceiver.ID)
		}
	}
}

func TestComputeCycleInfo_RotationIgnoresSlicePosition(t *testing.T) {
	// GIVEN: the same members persisted in scrambled slice order
	// WHEN: computing any cycle
	// THEN: the receiver matches the Order-sorted rotation

	scrambled := []circle.Member{
		{ID: "m4", Name: "Dara", Order: 4},
		{ID: "m1", Name: "Anan", Order: 1},
		{ID: "m5", Name: "Ekachai", Order: 5},
		{ID: "m2", Name: "Boon", Order: 2},
		{ID: "m3", Name: "Chai", Order: 3},
	}

	// Cycle 3 starts on day 31 (2024-02-01); receiver should be order 3.
	info, ok := circle.ComputeCycleInfo("2024-01-01", day(2024, time.February, 1), scrambled)
	if !ok {
		t.Fatal("expected configured cycle info")
	}
	if info.CurrentReceiver.ID != "m3" {
		t.Errorf("receiver = %s, want m3", info.CurrentReceiver.ID)
	}
}

func TestComputeCycleInfo_TimeOfDaySkew(t *testing.T) {
	// A late-evening asOf must land on the same day as its midnight.
	late := time.Date(2024, time.January, 20, 23, 45, 0, 0, time.UTC)
	a, _ := circle.ComputeCycleInfo("2024-01-01", late, fiveMembers())
	b, _ := circle.ComputeCycleInfo("2024-01-01", day(2024, time.January, 20), fiveMembers())
	if a.CycleNumber != b.CycleNumber || a.DayInCycle != b.DayInCycle {
		t.Errorf("time-of-day skew changed the cycle position: %+v vs %+v", a, b)
	}
}

func TestComputeCycleInfo_SmallerRoster(t *testing.T) {
	// Rotation length follows the actual roster, not the TotalMembers
	// constant: with 3 members, cycle 4 wraps back to order 1.
	three := fiveMembers()[:3]
	info, ok := circle.ComputeCycleInfo("2024-01-01", day(2024, time.February, 16), three) // day 46 -> cycle 4
	if !ok {
		t.Fatal("expected configured cycle info")
	}
	if info.CycleNumber != 4 {
		t.Fatalf("cycle = %d, want 4", info.CycleNumber)
	}
	if info.CurrentReceiver.ID != "m1" {
		t.Errorf("receiver = %s, want m1 (wrap after 3 cycles)", info.CurrentReceiver.ID)
	}
}
