package narration

import (
	"os"
	"strconv"

	"github.com/abadojack/whatlanggo"
	"github.com/arcyniiegas/elysium/internal/cache"
	"github.com/arcyniiegas/elysium/internal/catalog"
)

// SourceKind tells the overlay how to play an echo.
type SourceKind string

const (
	// SourceRecording plays a locally uploaded voice note.
	SourceRecording SourceKind = "recording"
	// SourceArchive plays the published voice archive file.
	SourceArchive SourceKind = "archive"
	// SourceText falls back to on-screen text with no audio.
	SourceText SourceKind = "text"
)

type Source struct {
	EchoID   int        `json:"echoId"`
	Kind     SourceKind `json:"kind"`
	URL      string     `json:"url,omitempty"`
	Text     string     `json:"text"`
	Language string     `json:"language,omitempty"`
	Cached   bool       `json:"cached"`
}

// RecordingLookup resolves an echo id to a stored recording file name,
// returning "" when no recording exists.
type RecordingLookup func(echoID int) string

// Resolve picks the playback source for an echo: an uploaded voice note
// wins, then the published archive, then text only. The archive check is
// cache-backed so a flaky network degrades to text instead of erroring.
func Resolve(echoID int, lookup RecordingLookup) (Source, bool) {
	echo, ok := catalog.EchoByID(echoID)
	if !ok {
		return Source{}, false
	}

	src := Source{
		EchoID:   echoID,
		Kind:     SourceText,
		Text:     echo.Text,
		Language: languageHint(echo.Text),
	}

	if lookup != nil {
		if name := lookup(echoID); name != "" {
			src.Kind = SourceRecording
			src.URL = "/recordings/" + name
			return src, true
		}
	}

	if archiveURL, ok := catalog.VoiceArchiveURL(echoID); ok {
		if local := cache.FetchRemoteAsset(archiveURL); local != "" {
			if _, err := os.Stat(local); err == nil {
				src.Kind = SourceArchive
				src.URL = "/voice/" + strconv.Itoa(echoID)
				src.Cached = true
				return src, true
			}
		}
	}

	return src, true
}

// languageHint detects the echo text language so the overlay can pick a
// matching speech voice when it falls back to synthesis.
func languageHint(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
