package webserver

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/arcyniiegas/elysium/internal/cache"
	"github.com/arcyniiegas/elysium/internal/catalog"
	"github.com/arcyniiegas/elysium/internal/narration"
	"github.com/arcyniiegas/elysium/internal/recording"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"go.uber.org/zap"
)

// handleRecordingUpload manages voice notes: POST uploads a new note for an
// echo, DELETE removes it. Path: /api/recordings/{echoId}
func handleRecordingUpload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	echoID, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/recordings/"))
	if err != nil {
		http.Error(w, "Invalid echo id", http.StatusBadRequest)
		return
	}
	if _, ok := catalog.EchoByID(echoID); !ok {
		http.Error(w, "Unknown echo", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodPost:
		if err := r.ParseMultipartForm(recording.MaxUploadSize); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			http.Error(w, "Failed to get file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		name, err := recording.Save(echoID, header.Filename, file)
		if err != nil {
			logger.Error("Failed to save voice note", zap.Int("echo_id", echoID), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Replace any previous note for this echo.
		if old, ok := eng.Recording(echoID); ok && old != name {
			recording.Remove(old)
		}
		if err := eng.SetRecording(echoID, name); err != nil {
			recording.Remove(name)
			http.Error(w, "Failed to store recording reference", http.StatusInternalServerError)
			return
		}

		BroadcastWSMessage("recording_updated", map[string]interface{}{
			"echoId": echoID,
			"file":   name,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"echoId":   echoID,
			"file":     name,
			"metadata": recording.Probe(name),
		})

	case http.MethodDelete:
		ref, ok := eng.RemoveRecording(echoID)
		if !ok {
			http.Error(w, "No recording for echo", http.StatusNotFound)
			return
		}
		recording.Remove(ref)

		BroadcastWSMessage("recording_updated", map[string]interface{}{
			"echoId": echoID,
			"file":   nil,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"deleted": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRecordingFile streams a stored voice note. Path: /recordings/{file}
func handleRecordingFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/recordings/")
	path := recording.Path(name)
	if path == "" {
		http.Error(w, "Invalid file name", http.StatusBadRequest)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Recording not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", recording.ContentType(name))
	http.ServeFile(w, r, path)
}

// handleVoiceArchive streams the cached archive narration for an echo,
// redirecting to the remote file when the cache has nothing.
// Path: /voice/{echoId}
func handleVoiceArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	echoID, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/voice/"))
	if err != nil {
		http.Error(w, "Invalid echo id", http.StatusBadRequest)
		return
	}

	archiveURL, ok := catalog.VoiceArchiveURL(echoID)
	if !ok {
		http.Error(w, "Unknown echo", http.StatusNotFound)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")

	if local := cache.FetchRemoteAsset(archiveURL); local != "" {
		w.Header().Set("Content-Type", "audio/webm")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.ServeFile(w, r, local)
		return
	}

	http.Redirect(w, r, archiveURL, http.StatusTemporaryRedirect)
}

// handleNarration resolves how an echo should be played.
// Path: /api/narration/{echoId}
func handleNarration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	echoID, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/narration/"))
	if err != nil {
		http.Error(w, "Invalid echo id", http.StatusBadRequest)
		return
	}

	src, ok := narration.Resolve(echoID, func(id int) string {
		ref, _ := eng.Recording(id)
		return ref
	})
	if !ok {
		http.Error(w, "Unknown echo", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(src)
}
