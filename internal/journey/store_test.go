package journey

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arcyniiegas/elysium/internal/localdb"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	localdb.Close()
	if _, err := localdb.SetupDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("SetupDB failed: %v", err)
	}
	t.Cleanup(localdb.Close)
}

func TestBlobStoreRoundTrip(t *testing.T) {
	setupTestDB(t)

	store := NewBlobStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	state := NewState()
	state.HasSeenIntro = true
	state.StartDate = &now
	state.SpinHistory = []HistoryEntry{
		{Kind: KindEcho, ItemID: 0, At: now},
		{Kind: KindRelic, ItemID: 1, At: now.Add(-24 * time.Hour)},
	}
	state.ScheduledDates[1] = now.AddDate(0, 0, 10)
	state.VoiceRecordings[0] = "echo_0_abc.webm"
	state.normalize()

	if err := store.Save(state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.HasSeenIntro {
		t.Fatalf("intro flag lost")
	}
	if len(loaded.SpinHistory) != 2 || loaded.SpinHistory[0].ItemID != 0 {
		t.Fatalf("history not preserved: %+v", loaded.SpinHistory)
	}
	if got := loaded.ScheduledDates[1]; !got.Equal(state.ScheduledDates[1]) {
		t.Fatalf("scheduled date lost: got=%v", got)
	}
	if loaded.VoiceRecordings[0] != "echo_0_abc.webm" {
		t.Fatalf("recording ref lost: %v", loaded.VoiceRecordings)
	}
	if len(loaded.CollectedRelics) != 1 || loaded.CollectedRelics[0] != 1 {
		t.Fatalf("collected relics not rebuilt: %v", loaded.CollectedRelics)
	}
}

func TestBlobStoreMissingKey(t *testing.T) {
	setupTestDB(t)

	store := &BlobStore{Key: "never_written"}
	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state == nil || state.CurrentDay() != 1 {
		t.Fatalf("missing blob should yield the default state")
	}
}

func TestBlobStoreCorruptBlob(t *testing.T) {
	setupTestDB(t)

	store := NewBlobStore()
	if err := localdb.PutStateBlob(store.Key, "{not json"); err != nil {
		t.Fatalf("PutStateBlob failed: %v", err)
	}

	state, err := store.Load()
	if err != nil {
		t.Fatalf("corrupt blob must not surface an error: %v", err)
	}
	if len(state.SpinHistory) != 0 {
		t.Fatalf("corrupt blob should yield the default state")
	}
}

func TestBlobStorePartialBlobMergesDefaults(t *testing.T) {
	setupTestDB(t)

	store := NewBlobStore()
	// Old export with only a couple of fields.
	if err := localdb.PutStateBlob(store.Key, `{"hasSeenIntro":true}`); err != nil {
		t.Fatalf("PutStateBlob failed: %v", err)
	}

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !state.HasSeenIntro {
		t.Fatalf("present field lost in merge")
	}
	if state.ScheduledDates == nil || state.VoiceRecordings == nil || state.SpinHistory == nil {
		t.Fatalf("absent fields must come from defaults")
	}
}

func TestBlobStoreClear(t *testing.T) {
	setupTestDB(t)

	store := NewBlobStore()
	state := NewState()
	state.HasSeenIntro = true
	if err := store.Save(state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.HasSeenIntro {
		t.Fatalf("cleared blob should load as default state")
	}
}
