package recording

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arcyniiegas/elysium/internal/catalog"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/shared/paths"
	"github.com/dhowden/tag"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

var allowedExtensions = map[string]string{
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
}

// MaxUploadSize bounds a single voice note upload.
const MaxUploadSize = 20 << 20 // 20MB

type Metadata struct {
	Format string `json:"format,omitempty"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
}

var mu sync.Mutex

// Save writes an uploaded voice note for an echo and returns the stored
// file name. The name embeds the echo id so old recordings for the same
// echo can be found and replaced.
func Save(echoID int, filename string, r io.Reader) (string, error) {
	if _, ok := catalog.EchoByID(echoID); !ok {
		return "", fmt.Errorf("unknown echo id %d", echoID)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported audio format %q", ext)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate recording id: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	dir := paths.GetRecordingsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create recordings directory: %w", err)
	}

	name := fmt.Sprintf("echo_%d_%s%s", echoID, id, ext)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create recording file: %w", err)
	}
	size, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	f.Close()
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write recording: %w", err)
	}
	if size > MaxUploadSize {
		os.Remove(path)
		return "", fmt.Errorf("recording exceeds %d bytes", MaxUploadSize)
	}
	if size == 0 {
		os.Remove(path)
		return "", fmt.Errorf("empty recording")
	}

	logger.Info("Voice note saved",
		zap.Int("echo_id", echoID),
		zap.String("file", name),
		zap.Int64("size", size))
	return name, nil
}

// Remove deletes a stored recording file. Missing files are not an error;
// the state reference is already gone by the time this is called.
func Remove(name string) {
	if name == "" {
		return
	}
	path := Path(name)
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to delete recording file", zap.String("file", name), zap.Error(err))
	}
}

// Path resolves a stored recording name to an absolute path, rejecting
// names that escape the recordings directory.
func Path(name string) string {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return ""
	}
	return filepath.Join(paths.GetRecordingsDir(), name)
}

// ContentType maps a stored recording to its MIME type.
func ContentType(name string) string {
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Probe reads embedded tags from a recording. Most browser-produced webm
// blobs carry none, so every field is best effort.
func Probe(name string) Metadata {
	meta := Metadata{}
	path := Path(name)
	if path == "" {
		return meta
	}

	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return meta
	}
	meta.Format = string(m.Format())
	meta.Title = m.Title()
	meta.Artist = m.Artist()
	return meta
}
