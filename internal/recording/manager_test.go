package recording

import (
	"os"
	"strings"
	"testing"
)

func TestSave(t *testing.T) {
	t.Setenv("ELYSIUM_DATA_DIR", t.TempDir())

	name, err := Save(4, "note.webm", strings.NewReader("fake audio bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(name, "echo_4_") || !strings.HasSuffix(name, ".webm") {
		t.Fatalf("unexpected stored name: %s", name)
	}

	data, err := os.ReadFile(Path(name))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "fake audio bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveRejections(t *testing.T) {
	t.Setenv("ELYSIUM_DATA_DIR", t.TempDir())

	tests := []struct {
		name     string
		echoID   int
		filename string
		body     string
	}{
		{"unknown echo", 999, "note.webm", "audio"},
		{"negative echo", -1, "note.webm", "audio"},
		{"bad extension", 0, "note.exe", "audio"},
		{"no extension", 0, "note", "audio"},
		{"empty body", 0, "note.ogg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Save(tt.echoID, tt.filename, strings.NewReader(tt.body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	t.Setenv("ELYSIUM_DATA_DIR", t.TempDir())

	name, err := Save(1, "note.mp3", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	Remove(name)
	if _, err := os.Stat(Path(name)); !os.IsNotExist(err) {
		t.Fatalf("file should be gone: %v", err)
	}

	// Removing again, or removing nothing, must not panic or warn loudly.
	Remove(name)
	Remove("")
	Remove("../escape.webm")
}

func TestPathRejectsTraversal(t *testing.T) {
	t.Setenv("ELYSIUM_DATA_DIR", t.TempDir())

	for _, name := range []string{"", "../secret", "a/b.webm", `a\b.webm`, "..", "x..y/../z"} {
		if got := Path(name); got != "" {
			t.Errorf("Path(%q) = %q, want empty", name, got)
		}
	}

	if got := Path("echo_0_abc.webm"); got == "" {
		t.Fatalf("valid name should resolve")
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.webm", "audio/webm"},
		{"a.OGG", "audio/ogg"},
		{"a.mp3", "audio/mpeg"},
		{"a.m4a", "audio/mp4"},
		{"a.wav", "audio/wav"},
		{"a.exe", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.name); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestProbeMissingFile(t *testing.T) {
	t.Setenv("ELYSIUM_DATA_DIR", t.TempDir())

	meta := Probe("echo_0_missing.webm")
	if meta.Format != "" || meta.Title != "" || meta.Artist != "" {
		t.Fatalf("missing file should yield empty metadata: %+v", meta)
	}
}
