package journey

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// memStore keeps the state in memory and counts saves.
type memStore struct {
	blob  []byte
	saves int
}

func (m *memStore) Load() (*State, error) {
	if m.blob == nil {
		return NewState(), nil
	}
	state := NewState()
	if err := json.Unmarshal(m.blob, state); err != nil {
		return NewState(), nil
	}
	return state, nil
}

func (m *memStore) Save(s *State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.blob = raw
	m.saves++
	return nil
}

// nopStore is for tests that never persist.
type nopStore struct{}

func (nopStore) Load() (*State, error) { return NewState(), nil }
func (nopStore) Save(*State) error     { return nil }

func TestFullJourney(t *testing.T) {
	store := &memStore{}
	e := NewEngine(store)

	relicDays := map[int]bool{1: true, 7: true, 13: true, 19: true, 25: true}

	for want := 1; want <= JourneyLength; want++ {
		day, out, err := e.ResolveSpin()
		if err != nil {
			t.Fatalf("day %d: ResolveSpin failed: %v", want, err)
		}
		if day != want {
			t.Fatalf("unexpected day: got=%d want=%d", day, want)
		}

		wantKind := KindEcho
		if relicDays[day] {
			wantKind = KindRelic
		}
		if out.Kind != wantKind {
			t.Fatalf("day %d: unexpected kind: got=%s want=%s", day, out.Kind, wantKind)
		}

		if _, err := e.CommitSpin(day, out, time.Now()); err != nil {
			t.Fatalf("day %d: CommitSpin failed: %v", day, err)
		}
	}

	s := e.Snapshot()
	if !s.Complete() {
		t.Fatalf("journey should be complete after %d spins", JourneyLength)
	}
	if len(s.CollectedRelics) != 5 {
		t.Fatalf("unexpected relic count: got=%d want=5", len(s.CollectedRelics))
	}
	if len(s.SpinHistory) != JourneyLength {
		t.Fatalf("unexpected history length: got=%d", len(s.SpinHistory))
	}
	// Newest entry first; oldest entry is day 1 which is a relic day.
	if s.SpinHistory[len(s.SpinHistory)-1].Kind != KindRelic {
		t.Fatalf("day 1 entry should be a relic")
	}

	// 26th spin must refuse without touching anything.
	if _, _, err := e.ResolveSpin(); !errors.Is(err, ErrJourneySealed) {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.CommitSpin(JourneyLength, Outcome{Kind: KindEcho, ItemID: 0}, time.Now()); !errors.Is(err, ErrJourneySealed) {
		t.Fatalf("unexpected commit error: %v", err)
	}
	if got := len(e.Snapshot().SpinHistory); got != JourneyLength {
		t.Fatalf("sealed journey history changed: got=%d", got)
	}
}

func TestCommitSpinPersists(t *testing.T) {
	store := &memStore{}
	e := NewEngine(store)

	day, out, err := e.ResolveSpin()
	if err != nil {
		t.Fatalf("ResolveSpin failed: %v", err)
	}
	if _, err := e.CommitSpin(day, out, time.Now()); err != nil {
		t.Fatalf("CommitSpin failed: %v", err)
	}
	if store.saves == 0 {
		t.Fatalf("commit must write through to the store")
	}

	// A fresh engine on the same store resumes at day 2.
	e2 := NewEngine(store)
	if got := e2.Snapshot().CurrentDay(); got != 2 {
		t.Fatalf("reloaded day: got=%d want=2", got)
	}
}

func TestCommitSpinRefusesStaleDay(t *testing.T) {
	e := NewEngine(&memStore{})

	// Two requests racing the same day resolve identically; only the first
	// commit may land, or day 1's reward is granted twice and day 2's is
	// skipped forever.
	day1, out1, err := e.ResolveSpin()
	if err != nil {
		t.Fatalf("first ResolveSpin failed: %v", err)
	}
	day2, out2, err := e.ResolveSpin()
	if err != nil {
		t.Fatalf("second ResolveSpin failed: %v", err)
	}
	if day1 != day2 || out1 != out2 {
		t.Fatalf("concurrent resolves should agree: %d/%v vs %d/%v", day1, out1, day2, out2)
	}

	if _, err := e.CommitSpin(day1, out1, time.Now()); err != nil {
		t.Fatalf("first CommitSpin failed: %v", err)
	}
	if _, err := e.CommitSpin(day2, out2, time.Now()); !errors.Is(err, ErrStaleSpin) {
		t.Fatalf("second commit for the same day must refuse: %v", err)
	}

	s := e.Snapshot()
	if len(s.SpinHistory) != 1 {
		t.Fatalf("double commit corrupted history: %d entries", len(s.SpinHistory))
	}
	if s.CurrentDay() != 2 {
		t.Fatalf("unexpected day after race: %d", s.CurrentDay())
	}

	// Day 2's echo is still reachable.
	day, out, err := e.ResolveSpin()
	if err != nil || day != 2 || out.Kind != KindEcho || out.ItemID != 0 {
		t.Fatalf("day 2 outcome lost: day=%d out=%v err=%v", day, out, err)
	}
}

func TestScheduleDate(t *testing.T) {
	e := NewEngine(&memStore{})
	now := time.Now()

	// Day 1 grants relic 1.
	day, out, _ := e.ResolveSpin()
	if _, err := e.CommitSpin(day, out, now); err != nil {
		t.Fatalf("CommitSpin failed: %v", err)
	}

	if err := e.ScheduleDate(2, now.AddDate(0, 0, 3), now); !errors.Is(err, ErrRelicNotCollected) {
		t.Fatalf("uncollected relic: unexpected error: %v", err)
	}
	if err := e.ScheduleDate(out.ItemID, now.AddDate(0, 0, -1), now); !errors.Is(err, ErrPastDate) {
		t.Fatalf("past date: unexpected error: %v", err)
	}
	if err := e.ScheduleDate(out.ItemID, now, now); !errors.Is(err, ErrPastDate) {
		t.Fatalf("same instant must count as past: %v", err)
	}

	future := now.AddDate(0, 0, 7)
	if err := e.ScheduleDate(out.ItemID, future, now); err != nil {
		t.Fatalf("ScheduleDate failed: %v", err)
	}
	if got := e.Snapshot().ScheduledDates[out.ItemID]; !got.Equal(future) {
		t.Fatalf("stored date mismatch: got=%v want=%v", got, future)
	}

	// Rebooking overwrites.
	later := now.AddDate(0, 1, 0)
	if err := e.ScheduleDate(out.ItemID, later, now); err != nil {
		t.Fatalf("rebooking failed: %v", err)
	}
	if got := e.Snapshot().ScheduledDates[out.ItemID]; !got.Equal(later) {
		t.Fatalf("rebooked date mismatch: got=%v", got)
	}

	e.ClearSchedule(out.ItemID)
	if _, ok := e.Snapshot().ScheduledDates[out.ItemID]; ok {
		t.Fatalf("cleared schedule still present")
	}
}

func TestDismissIntroSetsStartDateOnce(t *testing.T) {
	e := NewEngine(&memStore{})

	first := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	e.DismissIntro(first)

	s := e.Snapshot()
	if !s.HasSeenIntro {
		t.Fatalf("intro should be marked seen")
	}
	if s.StartDate == nil || !s.StartDate.Equal(first) {
		t.Fatalf("start date not set: %v", s.StartDate)
	}

	e.DismissIntro(first.AddDate(0, 0, 5))
	if got := e.Snapshot().StartDate; !got.Equal(first) {
		t.Fatalf("start date must never move: got=%v", got)
	}
}

func TestRecordings(t *testing.T) {
	e := NewEngine(&memStore{})

	if err := e.SetRecording(999, "x.webm"); !errors.Is(err, ErrUnknownEcho) {
		t.Fatalf("unknown echo: unexpected error: %v", err)
	}

	if err := e.SetRecording(4, "echo_4_abc.webm"); err != nil {
		t.Fatalf("SetRecording failed: %v", err)
	}
	ref, ok := e.Recording(4)
	if !ok || ref != "echo_4_abc.webm" {
		t.Fatalf("recording lookup: got=%q ok=%v", ref, ok)
	}

	old, ok := e.RemoveRecording(4)
	if !ok || old != "echo_4_abc.webm" {
		t.Fatalf("remove should return prior ref: got=%q ok=%v", old, ok)
	}
	if _, ok := e.Recording(4); ok {
		t.Fatalf("removed recording still present")
	}
	if _, ok := e.RemoveRecording(4); ok {
		t.Fatalf("second remove should report nothing to do")
	}
}

func TestReset(t *testing.T) {
	e := NewEngine(&memStore{})

	day, out, _ := e.ResolveSpin()
	e.CommitSpin(day, out, time.Now())
	e.DismissIntro(time.Now())

	e.Reset()

	s := e.Snapshot()
	if len(s.SpinHistory) != 0 || s.HasSeenIntro || s.StartDate != nil {
		t.Fatalf("reset left residue: %+v", s)
	}
	if got := s.CurrentDay(); got != 1 {
		t.Fatalf("day after reset: got=%d want=1", got)
	}
}
