package journey

import (
	"testing"

	"github.com/arcyniiegas/elysium/internal/catalog"
)

func TestScheduleCoversEveryDay(t *testing.T) {
	relicDays := []int{1, 7, 13, 19, 25}
	seenRelics := map[int]bool{}
	seenEchoes := map[int]bool{}

	for day := 1; day <= JourneyLength; day++ {
		out, ok := ResolveOutcome(day)
		if !ok {
			t.Fatalf("day %d: schedule references a missing catalog item", day)
		}

		isRelicDay := false
		for _, d := range relicDays {
			if d == day {
				isRelicDay = true
			}
		}

		if isRelicDay {
			if out.Kind != KindRelic {
				t.Fatalf("day %d: got=%s want=relic", day, out.Kind)
			}
			if seenRelics[out.ItemID] {
				t.Fatalf("day %d: relic %d granted twice", day, out.ItemID)
			}
			seenRelics[out.ItemID] = true
		} else {
			if out.Kind != KindEcho {
				t.Fatalf("day %d: got=%s want=echo", day, out.Kind)
			}
			if seenEchoes[out.ItemID] {
				t.Fatalf("day %d: echo %d granted twice", day, out.ItemID)
			}
			seenEchoes[out.ItemID] = true
		}
	}

	if len(seenRelics) != catalog.RelicCount() {
		t.Fatalf("schedule should grant every relic: got=%d want=%d", len(seenRelics), catalog.RelicCount())
	}
	if len(seenEchoes) != catalog.EchoCount() {
		t.Fatalf("schedule should grant every echo: got=%d want=%d", len(seenEchoes), catalog.EchoCount())
	}
}

func TestScheduleIsDeterministic(t *testing.T) {
	for day := 1; day <= JourneyLength; day++ {
		first := ScheduledOutcome(day)
		for i := 0; i < 3; i++ {
			if got := ScheduledOutcome(day); got != first {
				t.Fatalf("day %d: outcome changed between calls: %v vs %v", day, first, got)
			}
		}
	}
}

func TestScheduledOutcomeFallback(t *testing.T) {
	for _, day := range []int{0, -3, 26, 100} {
		if got := ScheduledOutcome(day); got != fallbackOutcome {
			t.Fatalf("day %d: got=%v want fallback", day, got)
		}
	}
}
