package env

import (
	"database/sql"
	"os"
	"strconv"

	"github.com/arcyniiegas/elysium/internal/settings"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	ServerPort         int
	DebugMode          bool
	GateRememberUnlock bool
	ContactPhone       string
	ContactEmail       string

	DryRunMode     bool
	PrinterAddress *string
	BestQuality    bool
	Dither         bool
	AutoRotate     bool
	BlackPoint     float64

	MusicEnabled        bool
	VideoEnabled        bool
	HapticsEnabled      bool
	WheelSpinDurationMS int

	DisableCache bool
}

var Value = Config{
	ServerPort:          8080,
	DryRunMode:          true,
	BestQuality:         true,
	Dither:              true,
	MusicEnabled:        true,
	VideoEnabled:        true,
	HapticsEnabled:      true,
	WheelSpinDurationMS: 9000,
}

// LoadEnv reads a local .env file if present. Main configuration lives in
// the settings table; the env file only matters for first-run migration
// and the few knobs that must exist before the database is open.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using defaults")
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			Value.ServerPort = p
		}
	}
	if os.Getenv("DEBUG_MODE") == "true" {
		Value.DebugMode = true
	}
	if os.Getenv("DISABLE_CACHE") == "true" {
		Value.DisableCache = true
	}
}

// ReloadFromDatabase overwrites the in-memory config from the settings
// table. Called at startup after migration and whenever a setting changes.
func ReloadFromDatabase(db *sql.DB) {
	sm := settings.NewSettingsManager(db)

	getString := func(key string, dst *string) {
		if v, err := sm.GetRealValue(key); err == nil {
			*dst = v
		}
	}
	getBool := func(key string, dst *bool) {
		if v, err := sm.GetRealValue(key); err == nil {
			*dst = v == "true"
		}
	}
	getInt := func(key string, dst *int) {
		if v, err := sm.GetRealValue(key); err == nil {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	getInt("SERVER_PORT", &Value.ServerPort)
	getBool("DEBUG_MODE", &Value.DebugMode)
	getBool("GATE_REMEMBER_UNLOCK", &Value.GateRememberUnlock)
	getString("CONTACT_PHONE", &Value.ContactPhone)
	getString("CONTACT_EMAIL", &Value.ContactEmail)

	getBool("DRY_RUN_MODE", &Value.DryRunMode)
	getBool("BEST_QUALITY", &Value.BestQuality)
	getBool("DITHER", &Value.Dither)
	getBool("AUTO_ROTATE", &Value.AutoRotate)
	if v, err := sm.GetRealValue("BLACK_POINT"); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			Value.BlackPoint = f
		}
	}
	if v, err := sm.GetRealValue("PRINTER_ADDRESS"); err == nil && v != "" {
		addr := v
		Value.PrinterAddress = &addr
	} else {
		Value.PrinterAddress = nil
	}

	getBool("OVERLAY_MUSIC_ENABLED", &Value.MusicEnabled)
	getBool("OVERLAY_VIDEO_ENABLED", &Value.VideoEnabled)
	getBool("OVERLAY_HAPTICS_ENABLED", &Value.HapticsEnabled)
	getInt("WHEEL_SPIN_DURATION_MS", &Value.WheelSpinDurationMS)

	logger.Debug("Configuration reloaded from database",
		zap.Int("server_port", Value.ServerPort),
		zap.Bool("dry_run", Value.DryRunMode))
}
