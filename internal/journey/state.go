package journey

import (
	"sort"
	"time"
)

// HistoryEntry records one completed day. Entries are prepended and never
// mutated; the oldest entry is day 1.
type HistoryEntry struct {
	Kind   Kind      `json:"kind"`
	ItemID int       `json:"itemId"`
	At     time.Time `json:"at"`
}

// State is the single persisted aggregate for the whole journey. The JSON
// field names match the original browser profile so an exported blob stays
// readable by the overlay.
type State struct {
	Unlocked        bool              `json:"isLoggedIn"`
	HasSeenIntro    bool              `json:"hasSeenIntro"`
	StartDate       *time.Time        `json:"startDate"`
	LastSpinAt      *time.Time        `json:"lastSpinDate"`
	SpinHistory     []HistoryEntry    `json:"spinHistory"`
	CollectedRelics []int             `json:"collectedPrizes"`
	CollectedEchoes []int             `json:"collectedReasons"`
	ScheduledDates  map[int]time.Time `json:"scheduledDates"`
	VoiceRecordings map[int]string    `json:"voiceRecordings"`
}

// NewState returns the default empty state used on first load and after a
// reset.
func NewState() *State {
	return &State{
		SpinHistory:     []HistoryEntry{},
		CollectedRelics: []int{},
		CollectedEchoes: []int{},
		ScheduledDates:  map[int]time.Time{},
		VoiceRecordings: map[int]string{},
	}
}

// CurrentDay is the 1-based journey day, pinned at the final day once the
// history is full. It depends on history length only. Value receiver so the
// derived accessors chain off Snapshot results.
func (s State) CurrentDay() int {
	day := len(s.SpinHistory) + 1
	if day > JourneyLength {
		return JourneyLength
	}
	return day
}

// CanSpin reports whether another spin may be committed. Once the history
// holds every day the journey is sealed for good.
func (s State) CanSpin() bool {
	return len(s.SpinHistory) < JourneyLength
}

// Complete reports whether all days have been claimed.
func (s State) Complete() bool {
	return len(s.SpinHistory) >= JourneyLength
}

// DayOfEntry returns the journey day of the history entry at idx
// (0 = newest).
func (s State) DayOfEntry(idx int) int {
	return len(s.SpinHistory) - idx
}

// normalize repairs anything a merged or hand-edited blob may have broken:
// nil maps, unsorted or stale collected sets. The collected sets are always
// recomputed from history, which is the authoritative record.
func (s *State) normalize() {
	if s.SpinHistory == nil {
		s.SpinHistory = []HistoryEntry{}
	}
	if s.ScheduledDates == nil {
		s.ScheduledDates = map[int]time.Time{}
	}
	if s.VoiceRecordings == nil {
		s.VoiceRecordings = map[int]string{}
	}
	s.CollectedRelics = collectedSet(s.SpinHistory, KindRelic)
	s.CollectedEchoes = collectedSet(s.SpinHistory, KindEcho)

	// Scheduling requires a collected relic; drop any date the history does
	// not back.
	for relicID := range s.ScheduledDates {
		if !containsInt(s.CollectedRelics, relicID) {
			delete(s.ScheduledDates, relicID)
		}
	}
}

func collectedSet(history []HistoryEntry, kind Kind) []int {
	seen := map[int]bool{}
	for _, e := range history {
		if e.Kind == kind {
			seen[e.ItemID] = true
		}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// addToSet inserts id keeping the slice sorted and duplicate-free.
func addToSet(set []int, id int) []int {
	i := sort.SearchInts(set, id)
	if i < len(set) && set[i] == id {
		return set
	}
	set = append(set, 0)
	copy(set[i+1:], set[i:])
	set[i] = id
	return set
}
