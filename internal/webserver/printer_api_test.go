package webserver

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arcyniiegas/elysium/internal/env"
)

func TestHandlePrinterStatus(t *testing.T) {
	prev := env.Value
	t.Cleanup(func() { env.Value = prev })

	env.Value.PrinterAddress = nil
	env.Value.DryRunMode = true

	rec := httptest.NewRecorder()
	handlePrinterStatus(rec, httptest.NewRequest(http.MethodGet, "/api/printer/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var resp map[string]interface{}
	decodeJSON(t, rec, &resp)
	if resp["configured"] != false || resp["dryRun"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	addr := "AA:BB:CC:DD:EE:FF"
	env.Value.PrinterAddress = &addr

	rec = httptest.NewRecorder()
	handlePrinterStatus(rec, httptest.NewRequest(http.MethodGet, "/api/printer/status", nil))
	decodeJSON(t, rec, &resp)
	if resp["configured"] != true {
		t.Fatalf("address should mark the printer configured: %+v", resp)
	}
}

func TestHandlePrinterReconnectUnconfigured(t *testing.T) {
	prev := env.Value
	t.Cleanup(func() { env.Value = prev })
	env.Value.PrinterAddress = nil

	rec := httptest.NewRecorder()
	handlePrinterReconnect(rec, httptest.NewRequest(http.MethodPost, "/api/printer/reconnect", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing address should 400: %d", rec.Code)
	}
}

func TestHandleQR(t *testing.T) {
	rec := httptest.NewRecorder()
	handleQR(rec, httptest.NewRequest(http.MethodGet, "/qr?url=http://example.org/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 512 {
		t.Fatalf("unexpected QR size: %d", img.Bounds().Dx())
	}

	rec = httptest.NewRecorder()
	handleQR(rec, httptest.NewRequest(http.MethodPost, "/qr", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST should be rejected: %d", rec.Code)
	}
}
