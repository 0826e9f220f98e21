package gate

import (
	"strings"
	"sync"

	"github.com/arcyniiegas/elysium/internal/catalog"
)

// Machine is the riddle gate: Locked until the day's riddle is answered,
// Unlocked afterwards. Whether an unlock survives a restart is a
// configuration choice (remember mode), not an invariant.
type Machine struct {
	mu       sync.Mutex
	unlocked bool
	remember bool
	onChange func(unlocked bool)
}

// New builds the gate. restored is the persisted unlock flag from the last
// run; it is honored only in remember mode. onChange fires on every
// transition so the caller can persist the flag.
func New(remember, restored bool, onChange func(bool)) *Machine {
	m := &Machine{remember: remember, onChange: onChange}
	if remember && restored {
		m.unlocked = true
	}
	return m
}

// Normalize is the answer comparison form: trimmed and lowercased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RiddleFor picks the challenge for a journey day. A sealed journey gets the
// sentinel riddle, which any non-empty answer opens.
func RiddleFor(day int, complete bool) catalog.Riddle {
	if complete {
		return catalog.CompletedRiddle()
	}
	return catalog.RiddleForDay(day)
}

// Submit applies one answer attempt. A mismatch leaves the gate locked; the
// transient wrong-answer cue is the caller's concern.
func (m *Machine) Submit(input string, day int, complete bool) bool {
	normalized := Normalize(input)
	riddle := RiddleFor(day, complete)

	ok := normalized == riddle.Answer || (complete && normalized != "")
	if !ok {
		return false
	}

	m.mu.Lock()
	changed := !m.unlocked
	m.unlocked = true
	m.mu.Unlock()

	if changed && m.onChange != nil {
		m.onChange(true)
	}
	return true
}

// Lock re-locks the gate ("secure interface").
func (m *Machine) Lock() {
	m.mu.Lock()
	changed := m.unlocked
	m.unlocked = false
	m.mu.Unlock()

	if changed && m.onChange != nil {
		m.onChange(false)
	}
}

// Unlocked reports the current gate state.
func (m *Machine) Unlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unlocked
}
