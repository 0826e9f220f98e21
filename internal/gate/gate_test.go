package gate

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"love", "love"},
		{"LOVE", "love"},
		{" Love ", "love"},
		{"\tPASSION\n", "passion"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q): got=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		day      int
		complete bool
		want     bool
	}{
		{"exact answer day 1", "love", 1, false, true},
		{"uppercase answer", "LOVE", 1, false, true},
		{"padded answer", "  Love  ", 1, false, true},
		{"near miss stays locked", "lov", 1, false, false},
		{"wrong riddle answer", "sex", 1, false, false},
		{"day 2 answer", "sex", 2, false, true},
		{"pool cycles at day 9", "love", 9, false, true},
		{"pool cycles at day 25", "love", 25, false, true},
		{"sealed journey accepts anything", "whatever", 25, true, true},
		{"sealed journey accepts the sentinel word", "always", 25, true, true},
		{"sealed journey rejects empty", "", 25, true, false},
		{"sealed journey rejects whitespace", "   ", 25, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(false, false, nil)
			if got := m.Submit(tt.input, tt.day, tt.complete); got != tt.want {
				t.Fatalf("Submit(%q, day=%d, complete=%v): got=%v want=%v",
					tt.input, tt.day, tt.complete, got, tt.want)
			}
			if m.Unlocked() != tt.want {
				t.Fatalf("gate state disagrees with submit result")
			}
		})
	}
}

func TestRememberMode(t *testing.T) {
	// Remember mode honors the persisted flag.
	m := New(true, true, nil)
	if !m.Unlocked() {
		t.Fatalf("remember mode should restore the unlock")
	}

	// Default mode always starts locked, whatever was persisted.
	m = New(false, true, nil)
	if m.Unlocked() {
		t.Fatalf("default mode must start locked")
	}
}

func TestOnChangeFiresOnTransitionsOnly(t *testing.T) {
	var calls []bool
	m := New(false, false, func(unlocked bool) {
		calls = append(calls, unlocked)
	})

	m.Submit("love", 1, false)
	m.Submit("love", 1, false) // already unlocked, no transition
	m.Lock()
	m.Lock() // already locked, no transition

	if len(calls) != 2 || calls[0] != true || calls[1] != false {
		t.Fatalf("unexpected transition calls: %v", calls)
	}
}

func TestLock(t *testing.T) {
	m := New(false, false, nil)
	m.Submit("love", 1, false)
	if !m.Unlocked() {
		t.Fatalf("setup: gate should be unlocked")
	}
	m.Lock()
	if m.Unlocked() {
		t.Fatalf("gate should be locked after Lock")
	}
}
