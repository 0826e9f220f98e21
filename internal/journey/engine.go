package journey

import (
	"errors"
	"sync"
	"time"

	"github.com/arcyniiegas/elysium/internal/catalog"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"go.uber.org/zap"
)

var (
	// ErrJourneySealed is returned when a spin is attempted after all days
	// have been claimed. This is terminal, not retryable.
	ErrJourneySealed = errors.New("journey sealed")

	// ErrRelicNotCollected is returned when scheduling a relic that history
	// does not contain yet.
	ErrRelicNotCollected = errors.New("relic not collected")

	// ErrPastDate is returned for a scheduling date that is not in the
	// future.
	ErrPastDate = errors.New("date is in the past")

	// ErrUnknownEcho is returned for a recording keyed to an echo id the
	// catalog does not have.
	ErrUnknownEcho = errors.New("unknown echo id")

	// ErrStaleSpin is returned when a commit arrives for a day the history
	// has already moved past. Two requests racing the same day resolve
	// identically; only the first commit lands.
	ErrStaleSpin = errors.New("spin already committed for day")
)

// Store persists the whole state as one blob. Save is write-through after
// every mutation; a failed save leaves memory ahead of storage, which is
// accepted for a single-user local tool.
type Store interface {
	Load() (*State, error)
	Save(*State) error
}

// Engine owns the journey state and is its single mutation entry point.
// Handlers read through Snapshot and mutate through the methods below.
type Engine struct {
	mu    sync.Mutex
	state *State
	store Store
}

// NewEngine loads the persisted state (or the default one) and wraps it.
func NewEngine(store Store) *Engine {
	state, err := store.Load()
	if err != nil || state == nil {
		if err != nil {
			logger.Warn("Failed to load journey state, starting fresh", zap.Error(err))
		}
		state = NewState()
	}
	state.normalize()
	return &Engine{state: state, store: store}
}

// Snapshot returns a deep copy safe to hand to handlers and encoders.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyLocked()
}

func (e *Engine) copyLocked() State {
	s := *e.state
	s.SpinHistory = append([]HistoryEntry(nil), e.state.SpinHistory...)
	s.CollectedRelics = append([]int(nil), e.state.CollectedRelics...)
	s.CollectedEchoes = append([]int(nil), e.state.CollectedEchoes...)
	s.ScheduledDates = make(map[int]time.Time, len(e.state.ScheduledDates))
	for k, v := range e.state.ScheduledDates {
		s.ScheduledDates[k] = v
	}
	s.VoiceRecordings = make(map[int]string, len(e.state.VoiceRecordings))
	for k, v := range e.state.VoiceRecordings {
		s.VoiceRecordings[k] = v
	}
	return s
}

// ResolveSpin captures the current day and its outcome in one step, before
// any mutation. Commit must be called with this same outcome; re-deriving
// the day after the history has grown shifts everything off by one.
func (e *Engine) ResolveSpin() (day int, out Outcome, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.CanSpin() {
		return 0, Outcome{}, ErrJourneySealed
	}
	day = e.state.CurrentDay()
	out, ok := ResolveOutcome(day)
	if !ok {
		logger.Error("Schedule references a missing catalog item, using fallback",
			zap.Int("day", day))
	}
	return day, out, nil
}

// CommitSpin applies one day's outcome as a unit: prepend the history entry,
// stamp the spin time, grow the collected set and persist. day must be the
// value ResolveSpin captured; if the history has grown since (a concurrent
// commit won the race) the outcome no longer belongs to the current day and
// the commit is refused with state untouched. A sealed journey refuses with
// ErrJourneySealed.
func (e *Engine) CommitSpin(day int, out Outcome, now time.Time) (HistoryEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.CanSpin() {
		return HistoryEntry{}, ErrJourneySealed
	}
	if day != e.state.CurrentDay() {
		return HistoryEntry{}, ErrStaleSpin
	}

	entry := HistoryEntry{Kind: out.Kind, ItemID: out.ItemID, At: now}
	e.state.SpinHistory = append([]HistoryEntry{entry}, e.state.SpinHistory...)
	e.state.LastSpinAt = &now
	switch out.Kind {
	case KindRelic:
		e.state.CollectedRelics = addToSet(e.state.CollectedRelics, out.ItemID)
	case KindEcho:
		e.state.CollectedEchoes = addToSet(e.state.CollectedEchoes, out.ItemID)
	}

	e.saveLocked()
	return entry, nil
}

// SetUnlocked records the gate state. Whether it survives a restart is the
// gate's configuration, not the engine's.
func (e *Engine) SetUnlocked(unlocked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Unlocked = unlocked
	e.saveLocked()
}

// DismissIntro marks the one-time onboarding as seen. The start date is set
// on the first call and never overwritten.
func (e *Engine) DismissIntro(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.HasSeenIntro = true
	if e.state.StartDate == nil {
		e.state.StartDate = &now
	}
	e.saveLocked()
}

// ScheduleDate books (or rebooks) an outing date for a collected relic.
// Past dates are rejected and leave the map untouched.
func (e *Engine) ScheduleDate(relicID int, date, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !containsInt(e.state.CollectedRelics, relicID) {
		return ErrRelicNotCollected
	}
	if !date.After(now) {
		return ErrPastDate
	}
	e.state.ScheduledDates[relicID] = date
	e.saveLocked()
	return nil
}

// ClearSchedule removes a booked date, if any.
func (e *Engine) ClearSchedule(relicID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.state.ScheduledDates[relicID]; !ok {
		return
	}
	delete(e.state.ScheduledDates, relicID)
	e.saveLocked()
}

// SetRecording maps an echo to an uploaded voice note reference,
// overwriting any previous one. Recording is allowed for every catalog echo
// (the studio can pre-record days that have not been spun yet).
func (e *Engine) SetRecording(echoID int, ref string) error {
	if _, ok := catalog.EchoByID(echoID); !ok {
		return ErrUnknownEcho
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.VoiceRecordings[echoID] = ref
	e.saveLocked()
	return nil
}

// Recording returns the stored voice note reference for an echo.
func (e *Engine) Recording(echoID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ref, ok := e.state.VoiceRecordings[echoID]
	return ref, ok
}

// RemoveRecording drops the mapping and returns the old reference so the
// caller can delete the file.
func (e *Engine) RemoveRecording(echoID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ref, ok := e.state.VoiceRecordings[echoID]
	if !ok {
		return "", false
	}
	delete(e.state.VoiceRecordings, echoID)
	e.saveLocked()
	return ref, true
}

// Reset wipes the whole journey back to the default state. Out-of-band
// operation behind the debug surface.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = NewState()
	e.saveLocked()
}

func (e *Engine) saveLocked() {
	if err := e.store.Save(e.state); err != nil {
		logger.Warn("Failed to persist journey state", zap.Error(err))
	}
}

func containsInt(set []int, id int) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
