package journey

import "github.com/arcyniiegas/elysium/internal/catalog"

// Kind tells which side of the wheel a day lands on.
type Kind string

const (
	KindRelic Kind = "relic"
	KindEcho  Kind = "echo"
)

// Outcome is a resolved reward: the kind due today and the concrete catalog
// item. The wheel animation is random only in presentation; the outcome is
// fixed per day.
type Outcome struct {
	Kind   Kind `json:"kind"`
	ItemID int  `json:"itemId"`
}

// JourneyLength is the number of sequential unlock days.
const JourneyLength = 25

// schedule maps journey day to its reward. Relics land on days 1, 7, 13, 19
// and 25; echoes fill the rest in catalog order.
var schedule = map[int]Outcome{
	1: {KindRelic, 1}, 2: {KindEcho, 0}, 3: {KindEcho, 1}, 4: {KindEcho, 2},
	5: {KindEcho, 3}, 6: {KindEcho, 4}, 7: {KindRelic, 2}, 8: {KindEcho, 5},
	9: {KindEcho, 6}, 10: {KindEcho, 7}, 11: {KindEcho, 8}, 12: {KindEcho, 9},
	13: {KindRelic, 3}, 14: {KindEcho, 10}, 15: {KindEcho, 11}, 16: {KindEcho, 12},
	17: {KindEcho, 13}, 18: {KindEcho, 14}, 19: {KindRelic, 4}, 20: {KindEcho, 15},
	21: {KindEcho, 16}, 22: {KindEcho, 17}, 23: {KindEcho, 18}, 24: {KindEcho, 19},
	25: {KindRelic, 5},
}

// fallbackOutcome is granted when the schedule or catalog is inconsistent.
var fallbackOutcome = Outcome{Kind: KindEcho, ItemID: 0}

// ScheduledOutcome returns the reward due on a journey day. Days outside the
// schedule fall back to the first echo.
func ScheduledOutcome(day int) Outcome {
	if out, ok := schedule[day]; ok {
		return out
	}
	return fallbackOutcome
}

// ResolveOutcome returns the reward for a day, verified against the
// catalogs. The second result is false when the schedule referenced a
// missing item and the safe fallback was substituted; callers should log
// that as a configuration fault but keep going.
func ResolveOutcome(day int) (Outcome, bool) {
	out := ScheduledOutcome(day)
	switch out.Kind {
	case KindRelic:
		if _, ok := catalog.RelicByID(out.ItemID); ok {
			return out, true
		}
	case KindEcho:
		if _, ok := catalog.EchoByID(out.ItemID); ok {
			return out, true
		}
	}
	return fallbackOutcome, false
}
