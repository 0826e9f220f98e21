package settings

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"go.uber.org/zap"
)

type SettingType string

const (
	SettingTypeNormal SettingType = "normal"
	SettingTypeSecret SettingType = "secret"
)

type Setting struct {
	Key         string      `json:"key"`
	Value       string      `json:"value"`
	Type        SettingType `json:"type"`
	Required    bool        `json:"required"`
	Description string      `json:"description"`
	UpdatedAt   time.Time   `json:"updated_at"`
	HasValue    bool        `json:"has_value"`
}

type SettingsManager struct {
	db *sql.DB
}

func NewSettingsManager(db *sql.DB) *SettingsManager {
	return &SettingsManager{db: db}
}

var DefaultSettings = map[string]Setting{
	// Contact hand-off (the scheduling confirmation message)
	"CONTACT_PHONE": {
		Key: "CONTACT_PHONE", Value: "", Type: SettingTypeSecret, Required: false,
		Description: "WhatsApp number for relic ticket requests",
	},
	"CONTACT_EMAIL": {
		Key: "CONTACT_EMAIL", Value: "", Type: SettingTypeSecret, Required: false,
		Description: "Fallback contact email",
	},

	// Gate behavior
	"GATE_REMEMBER_UNLOCK": {
		Key: "GATE_REMEMBER_UNLOCK", Value: "false", Type: SettingTypeNormal, Required: false,
		Description: "Keep the riddle gate unlocked across restarts",
	},

	// Keepsake printer
	"PRINTER_ADDRESS": {
		Key: "PRINTER_ADDRESS", Value: "", Type: SettingTypeNormal, Required: false,
		Description: "Bluetooth MAC address of the keepsake printer",
	},
	"DRY_RUN_MODE": {
		Key: "DRY_RUN_MODE", Value: "true", Type: SettingTypeNormal, Required: false,
		Description: "Render keepsake tickets to disk instead of printing",
	},
	"BEST_QUALITY": {
		Key: "BEST_QUALITY", Value: "true", Type: SettingTypeNormal, Required: false,
		Description: "Enable best quality printing",
	},
	"DITHER": {
		Key: "DITHER", Value: "true", Type: SettingTypeNormal, Required: false,
		Description: "Enable dithering",
	},
	"AUTO_ROTATE": {
		Key: "AUTO_ROTATE", Value: "false", Type: SettingTypeNormal, Required: false,
		Description: "Auto rotate ticket images",
	},
	"BLACK_POINT": {
		Key: "BLACK_POINT", Value: "0", Type: SettingTypeNormal, Required: false,
		Description: "Black point threshold (0-255)",
	},

	// Server
	"SERVER_PORT": {
		Key: "SERVER_PORT", Value: "8080", Type: SettingTypeNormal, Required: false,
		Description: "Web server port for the overlay",
	},
	"DEBUG_MODE": {
		Key: "DEBUG_MODE", Value: "false", Type: SettingTypeNormal, Required: false,
		Description: "Enable debug logging and the debug surface",
	},

	// Overlay display
	"OVERLAY_MUSIC_ENABLED": {
		Key: "OVERLAY_MUSIC_ENABLED", Value: "true", Type: SettingTypeNormal, Required: false,
		Description: "Enable background music in the overlay",
	},
	"OVERLAY_VIDEO_ENABLED": {
		Key: "OVERLAY_VIDEO_ENABLED", Value: "true", Type: SettingTypeNormal, Required: false,
		Description: "Enable background video in the overlay",
	},
	"OVERLAY_HAPTICS_ENABLED": {
		Key: "OVERLAY_HAPTICS_ENABLED", Value: "true", Type: SettingTypeNormal, Required: false,
		Description: "Enable synthetic haptic cues in the overlay",
	},
	"WHEEL_SPIN_DURATION_MS": {
		Key: "WHEEL_SPIN_DURATION_MS", Value: "9000", Type: SettingTypeNormal, Required: false,
		Description: "Wheel spin animation duration in milliseconds",
	},
}

func (sm *SettingsManager) GetSetting(key string) (string, error) {
	var value string
	err := sm.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		if defaultSetting, exists := DefaultSettings[key]; exists {
			return defaultSetting.Value, nil
		}
		return "", fmt.Errorf("setting not found: %s", key)
	}
	return value, err
}

func (sm *SettingsManager) SetSetting(key, value string) error {
	defaultSetting, exists := DefaultSettings[key]
	if !exists {
		return fmt.Errorf("unknown setting key: %s", key)
	}

	_, err := sm.db.Exec(`
		INSERT INTO settings (key, value, setting_type, is_required, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`,
		key, value,
		string(defaultSetting.Type),
		defaultSetting.Required,
		defaultSetting.Description,
	)
	return err
}

func (sm *SettingsManager) GetAllSettings() (map[string]Setting, error) {
	rows, err := sm.db.Query(`
		SELECT key, value, setting_type, is_required, description, updated_at
		FROM settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]Setting)
	for rows.Next() {
		var s Setting
		var settingType string
		var description sql.NullString
		err := rows.Scan(&s.Key, &s.Value, &settingType, &s.Required, &description, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		s.Type = SettingType(settingType)
		s.Description = description.String
		s.HasValue = s.Value != ""
		settings[s.Key] = s
	}

	// Keys never written yet surface with their defaults.
	for key, defaultSetting := range DefaultSettings {
		if _, exists := settings[key]; !exists {
			settings[key] = defaultSetting
		}
	}

	return settings, nil
}

// GetRealValue returns the unmasked value for internal use.
func (sm *SettingsManager) GetRealValue(key string) (string, error) {
	var value string
	err := sm.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		if defaultSetting, exists := DefaultSettings[key]; exists {
			return defaultSetting.Value, nil
		}
		return "", fmt.Errorf("setting not found: %s", key)
	}
	return value, err
}

// MigrateFromEnv seeds the settings table from environment variables on
// first run, so a .env file keeps working after the move to sqlite.
func (sm *SettingsManager) MigrateFromEnv() error {
	migrated := 0

	for key := range DefaultSettings {
		var existingKey string
		if err := sm.db.QueryRow("SELECT key FROM settings WHERE key = ?", key).Scan(&existingKey); err == nil {
			continue
		}

		if envValue := os.Getenv(key); envValue != "" {
			if err := sm.SetSetting(key, envValue); err != nil {
				logger.Error("Failed to migrate setting", zap.String("key", key), zap.Error(err))
				return fmt.Errorf("failed to migrate %s: %w", key, err)
			}
			migrated++
		}
	}

	if migrated > 0 {
		logger.Info("Migrated settings from environment", zap.Int("migrated_count", migrated))
	}
	return nil
}

func ValidateSetting(key, value string) error {
	switch key {
	case "BLACK_POINT":
		if val, err := strconv.Atoi(value); err != nil || val < 0 || val > 255 {
			return fmt.Errorf("must be integer between 0 and 255")
		}
	case "SERVER_PORT":
		if val, err := strconv.Atoi(value); err != nil || val < 1 || val > 65535 {
			return fmt.Errorf("must be a valid port number")
		}
	case "WHEEL_SPIN_DURATION_MS":
		if val, err := strconv.Atoi(value); err != nil || val < 500 || val > 60000 {
			return fmt.Errorf("must be integer between 500 and 60000")
		}
	case "CONTACT_PHONE":
		if value != "" {
			if matched, _ := regexp.MatchString(`^[0-9]{6,15}$`, value); !matched {
				return fmt.Errorf("must be digits only, international format without +")
			}
		}
	case "PRINTER_ADDRESS":
		if value != "" {
			macMatched, _ := regexp.MatchString(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`, value)
			uuidMatched, _ := regexp.MatchString(`^[0-9A-Fa-f]{8}(-[0-9A-Fa-f]{4}){3}-[0-9A-Fa-f]{12}$`, value)
			if !macMatched && !uuidMatched {
				return fmt.Errorf("must be a MAC address or macOS device UUID")
			}
		}
	}
	return nil
}
