package webserver

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/narration"
	"github.com/arcyniiegas/elysium/internal/recording"
)

func multipartUpload(t *testing.T, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handleRecordingUpload(rec, req)
	return rec
}

func TestRecordingUploadAndDelete(t *testing.T) {
	setupHandlers(t)

	rec := multipartUpload(t, "/api/recordings/3", "note.webm", "fake audio")
	if rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		EchoID int    `json:"echoId"`
		File   string `json:"file"`
	}
	decodeJSON(t, rec, &resp)
	if resp.EchoID != 3 || !strings.HasPrefix(resp.File, "echo_3_") {
		t.Fatalf("unexpected upload response: %+v", resp)
	}

	ref, ok := eng.Recording(3)
	if !ok || ref != resp.File {
		t.Fatalf("recording not stored on state: %q ok=%v", ref, ok)
	}

	// Replacing the note swaps the file reference.
	rec = multipartUpload(t, "/api/recordings/3", "retake.ogg", "better take")
	if rec.Code != http.StatusOK {
		t.Fatalf("replacement failed: %d", rec.Code)
	}
	newRef, _ := eng.Recording(3)
	if newRef == resp.File {
		t.Fatalf("replacement should change the stored reference")
	}

	del := httptest.NewRecorder()
	handleRecordingUpload(del, httptest.NewRequest(http.MethodDelete, "/api/recordings/3", nil))
	if del.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", del.Code)
	}
	if _, ok := eng.Recording(3); ok {
		t.Fatalf("recording reference should be gone")
	}

	del = httptest.NewRecorder()
	handleRecordingUpload(del, httptest.NewRequest(http.MethodDelete, "/api/recordings/3", nil))
	if del.Code != http.StatusNotFound {
		t.Fatalf("second delete should 404: %d", del.Code)
	}
}

func TestRecordingUploadRejections(t *testing.T) {
	setupHandlers(t)

	if rec := multipartUpload(t, "/api/recordings/abc", "note.webm", "x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric echo id should 400: %d", rec.Code)
	}
	if rec := multipartUpload(t, "/api/recordings/999", "note.webm", "x"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown echo should 404: %d", rec.Code)
	}
	if rec := multipartUpload(t, "/api/recordings/3", "note.exe", "x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad extension should 400: %d", rec.Code)
	}
}

func TestRecordingFileTraversal(t *testing.T) {
	setupHandlers(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recordings/..%2Fsecret", nil)
	req.URL.Path = "/recordings/../secret"
	handleRecordingFile(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("traversal should 400: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleRecordingFile(rec, httptest.NewRequest(http.MethodGet, "/recordings/echo_0_missing.webm", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing file should 404: %d", rec.Code)
	}
}

func TestRecordingFileServesUpload(t *testing.T) {
	setupHandlers(t)

	name, err := recording.Save(0, "note.mp3", strings.NewReader("mp3 bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handleRecordingFile(rec, httptest.NewRequest(http.MethodGet, "/recordings/"+name, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("serving failed: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if rec.Body.String() != "mp3 bytes" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestVoiceArchiveRedirectsWithoutCache(t *testing.T) {
	setupHandlers(t)

	prev := env.Value.DisableCache
	env.Value.DisableCache = true
	t.Cleanup(func() { env.Value.DisableCache = prev })

	rec := httptest.NewRecorder()
	handleVoiceArchive(rec, httptest.NewRequest(http.MethodGet, "/voice/7", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("empty cache should redirect: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "/elysium_reason_7.webm") {
		t.Fatalf("unexpected redirect target: %s", loc)
	}

	rec = httptest.NewRecorder()
	handleVoiceArchive(rec, httptest.NewRequest(http.MethodGet, "/voice/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown echo should 404: %d", rec.Code)
	}
}

func TestHandleNarration(t *testing.T) {
	setupHandlers(t)

	prev := env.Value.DisableCache
	env.Value.DisableCache = true
	t.Cleanup(func() { env.Value.DisableCache = prev })

	name, err := recording.Save(4, "note.webm", strings.NewReader("audio"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := eng.SetRecording(4, name); err != nil {
		t.Fatalf("SetRecording failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handleNarration(rec, httptest.NewRequest(http.MethodGet, "/api/narration/4", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("narration failed: %d", rec.Code)
	}

	var src narration.Source
	decodeJSON(t, rec, &src)
	if src.Kind != narration.SourceRecording || src.URL != "/recordings/"+name {
		t.Fatalf("recording should win: %+v", src)
	}

	rec = httptest.NewRecorder()
	handleNarration(rec, httptest.NewRequest(http.MethodGet, "/api/narration/5", nil))
	var fallback narration.Source
	decodeJSON(t, rec, &fallback)
	if fallback.Kind != narration.SourceText {
		t.Fatalf("no recording and no cache should fall back to text: %+v", fallback)
	}

	rec = httptest.NewRecorder()
	handleNarration(rec, httptest.NewRequest(http.MethodGet, "/api/narration/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown echo should 404: %d", rec.Code)
	}
}
