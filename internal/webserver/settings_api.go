package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/localdb"
	"github.com/arcyniiegas/elysium/internal/settings"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"go.uber.org/zap"
)

// maskedValue hides secret settings from the API while signalling presence.
func maskedValue(s settings.Setting) string {
	if s.Type == settings.SettingTypeSecret && s.Value != "" {
		return "********"
	}
	return s.Value
}

// handleSettings lists and updates the settings table
func handleSettings(w http.ResponseWriter, r *http.Request) {
	db := localdb.GetDB()
	if db == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}
	sm := settings.NewSettingsManager(db)

	switch r.Method {
	case http.MethodGet:
		all, err := sm.GetAllSettings()
		if err != nil {
			logger.Error("Failed to get settings", zap.Error(err))
			http.Error(w, "Failed to get settings", http.StatusInternalServerError)
			return
		}

		out := make(map[string]interface{}, len(all))
		for key, s := range all {
			out[key] = map[string]interface{}{
				"value":       maskedValue(s),
				"type":        s.Type,
				"required":    s.Required,
				"description": s.Description,
				"hasValue":    s.Value != "",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)

	case http.MethodPut, http.MethodPost:
		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := settings.ValidateSetting(req.Key, req.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := sm.SetSetting(req.Key, req.Value); err != nil {
			logger.Error("Failed to save setting", zap.String("key", req.Key), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		env.ReloadFromDatabase(db)

		logger.Info("Setting updated", zap.String("key", req.Key))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSettingsStatus reports which optional features are configured
func handleSettingsStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"contactConfigured": env.Value.ContactPhone != "",
		"printerConfigured": env.Value.PrinterAddress != nil,
		"dryRun":            env.Value.DryRunMode,
		"rememberUnlock":    env.Value.GateRememberUnlock,
		"debugMode":         env.Value.DebugMode,
	})
}
