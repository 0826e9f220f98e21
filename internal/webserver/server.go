package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arcyniiegas/elysium/internal/broadcast"
	"github.com/arcyniiegas/elysium/internal/gate"
	"github.com/arcyniiegas/elysium/internal/journey"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/status"
	"go.uber.org/zap"
)

var (
	httpServer  *http.Server
	eng         *journey.Engine
	gateMachine *gate.Machine
)

// webSocketBroadcaster implements the Broadcaster interface using WebSocket
type webSocketBroadcaster struct{}

func (w *webSocketBroadcaster) BroadcastMessage(message interface{}) {
	BroadcastMessage(message)
}

// BroadcastMessage unwraps typed map payloads onto the WebSocket hub.
func BroadcastMessage(message interface{}) {
	if msgMap, ok := message.(map[string]interface{}); ok {
		if msgType, hasType := msgMap["type"].(string); hasType {
			if data, hasData := msgMap["data"]; hasData {
				BroadcastWSMessage(msgType, data)
			} else {
				cleanData := make(map[string]interface{})
				for k, v := range msgMap {
					if k != "type" {
						cleanData[k] = v
					}
				}
				BroadcastWSMessage(msgType, cleanData)
			}
		}
		return
	}

	// Struct payloads carry their type in a Type field; re-marshal to find it.
	raw, err := json.Marshal(message)
	if err != nil {
		return
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Type == "" {
		return
	}
	BroadcastWSMessage(probe.Type, json.RawMessage(raw))
}

// corsMiddleware adds CORS headers to HTTP handlers
func corsMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler(w, r)
	}
}

func StartWebServer(port int, engine *journey.Engine, g *gate.Machine) error {
	eng = engine
	gateMachine = g

	broadcast.SetBroadcaster(&webSocketBroadcaster{})

	status.OnPrinterStatusChange(func(connected bool) {
		BroadcastWSMessage("printer_status", map[string]bool{"connected": connected})
	})

	// Overlay static files live next to the binary in production and in
	// ./web/dist during development.
	overlayDir := ""
	possiblePaths := []string{}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		possiblePaths = append(possiblePaths, filepath.Join(execDir, "public"))
	}
	possiblePaths = append(possiblePaths,
		"./public",
		"./web/dist",
	)
	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			overlayDir = path
			logger.Info("Using overlay static files directory", zap.String("path", overlayDir))
			break
		}
	}
	if overlayDir == "" {
		logger.Warn("No overlay static files directory found, using default")
		overlayDir = "./web/dist"
	}
	overlayServer := http.FileServer(http.Dir(overlayDir))

	mux := http.NewServeMux()

	// Journey API endpoints
	mux.HandleFunc("/api/journey/state", corsMiddleware(handleJourneyState))
	mux.HandleFunc("/api/journey/riddle", corsMiddleware(handleRiddle))
	mux.HandleFunc("/api/journey/unlock", corsMiddleware(handleUnlock))
	mux.HandleFunc("/api/journey/lock", corsMiddleware(handleLock))
	mux.HandleFunc("/api/journey/intro", corsMiddleware(handleIntro))
	mux.HandleFunc("/api/journey/spin", corsMiddleware(handleSpin))
	mux.HandleFunc("/api/journey/schedule", corsMiddleware(handleSchedule))
	mux.HandleFunc("/api/journey/reset", corsMiddleware(handleReset))

	// Voice note endpoints
	mux.HandleFunc("/api/recordings/", handleRecordingUpload) // has its own CORS handling
	mux.HandleFunc("/recordings/", handleRecordingFile)
	mux.HandleFunc("/voice/", handleVoiceArchive)
	mux.HandleFunc("/api/narration/", corsMiddleware(handleNarration))

	// Settings API endpoints
	mux.HandleFunc("/api/settings", corsMiddleware(handleSettings))
	mux.HandleFunc("/api/settings/status", corsMiddleware(handleSettingsStatus))

	// Printer API endpoints
	mux.HandleFunc("/api/printer/status", corsMiddleware(handlePrinterStatus))
	mux.HandleFunc("/api/printer/reconnect", corsMiddleware(handlePrinterReconnect))
	mux.HandleFunc("/api/printer/test-print", corsMiddleware(handlePrinterTestPrint))

	// Cache API endpoints
	mux.HandleFunc("/api/cache/settings", corsMiddleware(handleCacheSettings))
	mux.HandleFunc("/api/cache/stats", corsMiddleware(handleCacheStats))
	mux.HandleFunc("/api/cache/clear", corsMiddleware(handleCacheClear))
	mux.HandleFunc("/api/cache/cleanup", corsMiddleware(handleCacheCleanup))

	// QR endpoint for pairing a phone with the overlay
	mux.HandleFunc("/qr", handleQR)

	// Status endpoint
	mux.HandleFunc("/status", handleStatus)

	// WebSocket endpoint
	RegisterWebSocketRoute(mux)

	// Overlay SPA (registered last so the API wins)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/")
		if rel != "" && !strings.HasSuffix(r.URL.Path, "/") {
			filePath := filepath.Join(overlayDir, rel)
			if stat, err := os.Stat(filePath); err == nil && !stat.IsDir() {
				overlayServer.ServeHTTP(w, r)
				return
			}
		}

		// SPA fallback
		http.ServeFile(w, r, filepath.Join(overlayDir, "index.html"))
	})

	addr := fmt.Sprintf(":%d", port)

	fmt.Println("")
	fmt.Println("====================================================")
	fmt.Printf("  Elysium is running\n")
	fmt.Printf("  Overlay:  http://localhost:%d/\n", port)
	fmt.Printf("  Pair QR:  http://localhost:%d/qr\n", port)
	fmt.Println("====================================================")
	fmt.Println("")

	logger.Info("Starting web server", zap.String("address", addr))

	httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine and wait briefly to check for immediate errors
	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Failed to start web server", zap.Error(err))
			return fmt.Errorf("failed to start web server on port %d: %w", port, err)
		}
	case <-time.After(100 * time.Millisecond):
		// Server started successfully
	}

	return nil
}

// Shutdown gracefully shuts down the web server
func Shutdown() {
	if httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown web server gracefully", zap.Error(err))
	} else {
		logger.Info("Web server shutdown complete")
	}
}

// handleStatus returns the current system status
func handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	statusData := map[string]interface{}{
		"printerConnected": status.IsPrinterConnected(),
		"gateUnlocked":     gateMachine.Unlocked(),
		"timestamp":        time.Now().Format("2006-01-02T15:04:05Z"),
	}

	json.NewEncoder(w).Encode(statusData)
}
