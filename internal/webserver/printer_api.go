package webserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/keepsake"
	"github.com/arcyniiegas/elysium/internal/output"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/status"
	"go.uber.org/zap"
)

// handlePrinterStatus reports the keepsake printer connection state
func handlePrinterStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := ""
	if env.Value.PrinterAddress != nil {
		address = *env.Value.PrinterAddress
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"connected":  status.IsPrinterConnected(),
		"configured": address != "",
		"dryRun":     env.Value.DryRunMode,
		"lastPrint":  output.LastPrintTime(),
	})
}

// handlePrinterReconnect forces a fresh BLE connection
func handlePrinterReconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if env.Value.PrinterAddress == nil || *env.Value.PrinterAddress == "" {
		http.Error(w, "Printer address not configured", http.StatusBadRequest)
		return
	}

	if err := output.ReconnectPrinter(*env.Value.PrinterAddress); err != nil {
		logger.Error("Printer reconnect failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// handlePrinterTestPrint queues a sample ticket
func handlePrinterTestPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t := keepsake.Ticket{
		Title:  "Test Print",
		Lines:  []string{"Printed at " + time.Now().Format("15:04:05")},
		Footer: "Elysium",
	}
	output.Enqueue(output.PrintJob{
		Image: t.Render(),
		Name:  "test_print",
		Force: true,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "Test ticket queued",
	})
}
