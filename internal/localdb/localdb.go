package localdb

import (
	"database/sql"
	"fmt"

	"github.com/arcyniiegas/elysium/internal/shared/logger"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var DBClient *sql.DB

func SetupDB(dbPath string) (*sql.DB, error) {
	if DBClient != nil {
		return DBClient, nil
	}

	// WAL plus busy timeout keeps the single-writer sqlite happy under
	// concurrent HTTP handlers.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// sqlite has a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)

	DBClient = db

	// journey_state holds whole-object JSON blobs keyed by a fixed name.
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS journey_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		logger.Error("Failed to create journey_state table", zap.Error(err))
		return nil, fmt.Errorf("failed to create journey_state table: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		setting_type TEXT NOT NULL DEFAULT 'normal',
		is_required BOOLEAN NOT NULL DEFAULT false,
		description TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return nil, err
	}

	// cache_entries tracks downloaded voice archive assets.
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url_hash TEXT UNIQUE NOT NULL,
		original_url TEXT NOT NULL,
		file_path TEXT NOT NULL,
		file_size INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		logger.Error("Failed to create cache_entries table", zap.Error(err))
		return nil, fmt.Errorf("failed to create cache_entries table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO settings (key, value, setting_type, is_required, description) VALUES
		('cache_expiry_days', '30', 'cache', false, 'Cached voice asset expiry in days'),
		('cache_max_size_mb', '100', 'cache', false, 'Maximum voice cache size in MB'),
		('cache_cleanup_enabled', 'true', 'cache', false, 'Enable automatic cache cleanup'),
		('cache_cleanup_on_start', 'true', 'cache', false, 'Run cache cleanup at startup')`)
	if err != nil {
		logger.Error("Failed to insert default cache settings", zap.Error(err))
		return nil, fmt.Errorf("failed to insert default cache settings: %w", err)
	}

	return db, nil
}

// GetDB returns the current database handle.
func GetDB() *sql.DB {
	return DBClient
}

// Close releases the database handle at shutdown.
func Close() {
	if DBClient != nil {
		if err := DBClient.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
		DBClient = nil
	}
}

// GetStateBlob reads a whole-object JSON blob by key. A missing key returns
// ("", nil).
func GetStateBlob(key string) (string, error) {
	db := GetDB()
	if db == nil {
		return "", fmt.Errorf("database not initialized")
	}

	var value string
	err := db.QueryRow(`SELECT value FROM journey_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read state blob: %w", err)
	}
	return value, nil
}

// PutStateBlob overwrites a whole-object JSON blob.
func PutStateBlob(key, value string) error {
	db := GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := db.Exec(`INSERT OR REPLACE INTO journey_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write state blob: %w", err)
	}
	return nil
}

// DeleteStateBlob removes a blob. Used by the debug reset.
func DeleteStateBlob(key string) error {
	db := GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	_, err := db.Exec(`DELETE FROM journey_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete state blob: %w", err)
	}
	return nil
}
