package circle_test

import (
	"testing"
	"time"

	"github.com/warp/circle-engine/circle"
)

func TestGenerateCalendarDays_ZeroDays(t *testing.T) {
	days := circle.GenerateCalendarDays("2024-01-01", 0, fiveMembers())
	if len(days) != 0 {
		t.Errorf("got %d days, want 0", len(days))
	}
}

func TestGenerateCalendarDays_Unconfigured(t *testing.T) {
	if got := circle.GenerateCalendarDays("", 30, fiveMembers()); len(got) != 0 {
		t.Errorf("missing start date: got %d days, want 0", len(got))
	}
	if got := circle.GenerateCalendarDays("2024-01-01", 30, nil); len(got) != 0 {
		t.Errorf("empty roster: got %d days, want 0", len(got))
	}
	if got := circle.GenerateCalendarDays("not-a-date", 30, fiveMembers()); len(got) != 0 {
		t.Errorf("malformed start date: got %d days, want 0", len(got))
	}
}

func TestGenerateCalendarDays_OneCycle(t *testing.T) {
	// GIVEN: a projection of exactly one cycle
	// WHEN: generating 15 days
	// THEN: exactly one payout day, at index 14

	days := circle.GenerateCalendarDays("2024-01-01", circle.CycleDays, fiveMembers())
	if len(days) != circle.CycleDays {
		t.Fatalf("got %d days, want %d", len(days), circle.CycleDays)
	}

	payouts := 0
	for i, d := range days {
		if d.IsPayoutDay {
			payouts++
			if i != circle.CycleDays-1 {
				t.Errorf("payout at index %d, want %d", i, circle.CycleDays-1)
			}
		}
		if d.DayGlobal != i+1 {
			t.Errorf("index %d: dayGlobal = %d, want %d", i, d.DayGlobal, i+1)
		}
	}
	if payouts != 1 {
		t.Errorf("got %d payout days, want 1", payouts)
	}

	first := days[0].Date
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !first.Equal(want) {
		t.Errorf("first date = %v, want %v", first, want)
	}
}

func TestGenerateCalendarDays_OwnerRotation(t *testing.T) {
	// GIVEN: a full rotation plus one cycle
	// WHEN: projecting 6 cycles of days
	// THEN: owner orders run 1..5 then wrap to 1, matching the cycle
	//       calculator's rotation

	days := circle.GenerateCalendarDays("2024-01-01", 6*circle.CycleDays, fiveMembers())
	wantOrders := []int{1, 2, 3, 4, 5, 1}
	for c, want := range wantOrders {
		for i := c * circle.CycleDays; i < (c+1)*circle.CycleDays; i++ {
			if days[i].CycleOwnerOrder != want {
				t.Fatalf("day %d: owner order = %d, want %d", i+1, days[i].CycleOwnerOrder, want)
			}
		}
	}
}

func TestGenerateCalendarDays_OwnerMatchesCycleCalculator(t *testing.T) {
	// The projector and the cycle calculator must share one source of
	// truth for rotation length: the actual roster. With 3 members the
	// fourth cycle belongs to order 1 again in BOTH views.

	three := fiveMembers()[:3]
	days := circle.GenerateCalendarDays("2024-01-01", 4*circle.CycleDays, three)

	for c := 0; c < 4; c++ {
		payoutIdx := (c+1)*circle.CycleDays - 1
		info, ok := circle.ComputeCycleInfo("2024-01-01", days[payoutIdx].Date, three)
		if !ok {
			t.Fatalf("cycle %d: expected configured info", c+1)
		}
		if days[payoutIdx].CycleOwnerOrder != info.CurrentReceiver.Order {
			t.Errorf("cycle %d: projector owner %d != calculator receiver %d",
				c+1, days[payoutIdx].CycleOwnerOrder, info.CurrentReceiver.Order)
		}
	}
}
