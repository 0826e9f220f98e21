package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/arcyniiegas/elysium/internal/env"
	"github.com/arcyniiegas/elysium/internal/localdb"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"github.com/arcyniiegas/elysium/internal/shared/paths"
	"go.uber.org/zap"
)

// CacheEntry represents a cached voice asset
type CacheEntry struct {
	ID             int64     `json:"id"`
	URLHash        string    `json:"url_hash"`
	OriginalURL    string    `json:"original_url"`
	FilePath       string    `json:"file_path"`
	FileSize       int64     `json:"file_size"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// CacheSettings represents cache configuration
type CacheSettings struct {
	ExpiryDays     int  `json:"expiry_days"`
	MaxSizeMB      int  `json:"max_size_mb"`
	CleanupEnabled bool `json:"cleanup_enabled"`
	CleanupOnStart bool `json:"cleanup_on_start"`
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalFiles     int       `json:"total_files"`
	TotalSizeMB    float64   `json:"total_size_mb"`
	OldestFileDate time.Time `json:"oldest_file_date"`
	ExpiredFiles   int       `json:"expired_files"`
}

// URLHash returns the key a remote asset is cached under.
func URLHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FetchRemoteAsset returns a local path for a remote voice file, downloading
// it on first access. Returns the empty string when caching is disabled or
// the download fails; callers fall back to streaming the remote URL.
func FetchRemoteAsset(url string) string {
	if env.Value.DisableCache {
		return ""
	}

	hash := URLHash(url)
	if entry, err := GetCacheEntry(hash); err == nil && entry != nil {
		if _, err := os.Stat(entry.FilePath); err == nil {
			return entry.FilePath
		}
		// Cached file is gone but the row remains; re-download below.
	}

	resp, err := http.Get(url)
	if err != nil {
		logger.Warn("Failed to download voice asset", zap.String("url", url), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Voice asset download returned non-OK status",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
		return ""
	}

	dir := paths.GetVoiceCacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn("Failed to create voice cache directory", zap.Error(err))
		return ""
	}

	ext := filepath.Ext(url)
	if ext == "" {
		ext = ".webm"
	}
	filePath := filepath.Join(dir, hash+ext)

	f, err := os.Create(filePath)
	if err != nil {
		logger.Warn("Failed to create cache file", zap.String("path", filePath), zap.Error(err))
		return ""
	}
	size, err := io.Copy(f, resp.Body)
	f.Close()
	if err != nil {
		os.Remove(filePath)
		logger.Warn("Failed to write cache file", zap.String("path", filePath), zap.Error(err))
		return ""
	}

	if err := AddCacheEntry(hash, url, filePath, size); err != nil {
		logger.Warn("Failed to record cache entry", zap.Error(err))
	}

	logger.Debug("Voice asset cached", zap.String("url", url), zap.Int64("size", size))
	return filePath
}

// AddCacheEntry adds a new cache entry to the database
func AddCacheEntry(urlHash, originalURL, filePath string, fileSize int64) error {
	db := localdb.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	var existingID int64
	err := db.QueryRow("SELECT id FROM cache_entries WHERE url_hash = ?", urlHash).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing entry: %w", err)
	}

	if err == nil {
		_, err = db.Exec("UPDATE cache_entries SET last_accessed_at = CURRENT_TIMESTAMP, file_size = ? WHERE id = ?", fileSize, existingID)
		if err != nil {
			return fmt.Errorf("failed to update cache entry: %w", err)
		}
		return nil
	}

	_, err = db.Exec(`INSERT INTO cache_entries (url_hash, original_url, file_path, file_size, created_at, last_accessed_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		urlHash, originalURL, filePath, fileSize)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// GetCacheEntry gets a cache entry by URL hash
func GetCacheEntry(urlHash string) (*CacheEntry, error) {
	db := localdb.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	entry := &CacheEntry{}
	err := db.QueryRow(`SELECT id, url_hash, original_url, file_path, file_size, created_at, last_accessed_at
		FROM cache_entries WHERE url_hash = ?`, urlHash).Scan(
		&entry.ID, &entry.URLHash, &entry.OriginalURL, &entry.FilePath,
		&entry.FileSize, &entry.CreatedAt, &entry.LastAccessedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	_, err = db.Exec("UPDATE cache_entries SET last_accessed_at = CURRENT_TIMESTAMP WHERE id = ?", entry.ID)
	if err != nil {
		logger.Warn("Failed to update last accessed time", zap.Error(err))
	}

	return entry, nil
}

// GetCacheSettings retrieves cache settings from database
func GetCacheSettings() (*CacheSettings, error) {
	db := localdb.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	settings := &CacheSettings{}

	var expiryStr string
	err := db.QueryRow("SELECT value FROM settings WHERE key = 'cache_expiry_days'").Scan(&expiryStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache expiry days: %w", err)
	}
	settings.ExpiryDays, _ = strconv.Atoi(expiryStr)

	var maxSizeStr string
	err = db.QueryRow("SELECT value FROM settings WHERE key = 'cache_max_size_mb'").Scan(&maxSizeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache max size: %w", err)
	}
	settings.MaxSizeMB, _ = strconv.Atoi(maxSizeStr)

	var cleanupEnabledStr string
	err = db.QueryRow("SELECT value FROM settings WHERE key = 'cache_cleanup_enabled'").Scan(&cleanupEnabledStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache cleanup enabled: %w", err)
	}
	settings.CleanupEnabled = cleanupEnabledStr == "true"

	var cleanupOnStartStr string
	err = db.QueryRow("SELECT value FROM settings WHERE key = 'cache_cleanup_on_start'").Scan(&cleanupOnStartStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache cleanup on start: %w", err)
	}
	settings.CleanupOnStart = cleanupOnStartStr == "true"

	return settings, nil
}

// UpdateCacheSettings updates cache settings in database
func UpdateCacheSettings(settings *CacheSettings) error {
	db := localdb.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updates := map[string]string{
		"cache_expiry_days":      strconv.Itoa(settings.ExpiryDays),
		"cache_max_size_mb":      strconv.Itoa(settings.MaxSizeMB),
		"cache_cleanup_enabled":  fmt.Sprintf("%t", settings.CleanupEnabled),
		"cache_cleanup_on_start": fmt.Sprintf("%t", settings.CleanupOnStart),
	}
	for key, value := range updates {
		_, err = tx.Exec("UPDATE settings SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?", value, key)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Updated cache settings",
		zap.Int("expiry_days", settings.ExpiryDays),
		zap.Int("max_size_mb", settings.MaxSizeMB),
		zap.Bool("cleanup_enabled", settings.CleanupEnabled),
		zap.Bool("cleanup_on_start", settings.CleanupOnStart))

	return nil
}

// GetCacheStats calculates cache statistics
func GetCacheStats() (*CacheStats, error) {
	db := localdb.GetDB()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	stats := &CacheStats{}

	var totalBytes int64
	err := db.QueryRow("SELECT COUNT(*), COALESCE(SUM(file_size), 0) FROM cache_entries").Scan(&stats.TotalFiles, &totalBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}
	stats.TotalSizeMB = float64(totalBytes) / (1024 * 1024)

	if stats.TotalFiles > 0 {
		err = db.QueryRow("SELECT created_at FROM cache_entries ORDER BY created_at ASC LIMIT 1").Scan(&stats.OldestFileDate)
		if err != nil {
			logger.Warn("Failed to get oldest file date", zap.Error(err))
		}
	}

	settings, err := GetCacheSettings()
	if err != nil {
		logger.Warn("Failed to get cache settings for expired count", zap.Error(err))
	} else {
		expiryTime := time.Now().AddDate(0, 0, -settings.ExpiryDays)
		err = db.QueryRow("SELECT COUNT(*) FROM cache_entries WHERE created_at < ?", expiryTime).Scan(&stats.ExpiredFiles)
		if err != nil {
			logger.Warn("Failed to get expired files count", zap.Error(err))
		}
	}

	return stats, nil
}

// CleanupExpiredEntries removes expired cache files
func CleanupExpiredEntries() error {
	db := localdb.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	settings, err := GetCacheSettings()
	if err != nil {
		return fmt.Errorf("failed to get cache settings: %w", err)
	}

	if !settings.CleanupEnabled {
		logger.Debug("Cache cleanup is disabled")
		return nil
	}

	expiryTime := time.Now().AddDate(0, 0, -settings.ExpiryDays)

	rows, err := db.Query("SELECT file_path FROM cache_entries WHERE created_at < ?", expiryTime)
	if err != nil {
		return fmt.Errorf("failed to query expired entries: %w", err)
	}
	defer rows.Close()

	var filesToDelete []string
	for rows.Next() {
		var filePath string
		if err := rows.Scan(&filePath); err != nil {
			logger.Warn("Failed to scan file path", zap.Error(err))
			continue
		}
		filesToDelete = append(filesToDelete, filePath)
	}

	deletedCount := 0
	for _, filePath := range filesToDelete {
		if err := os.Remove(filePath); err != nil {
			logger.Warn("Failed to delete cache file", zap.String("path", filePath), zap.Error(err))
		} else {
			deletedCount++
		}
	}

	result, err := db.Exec("DELETE FROM cache_entries WHERE created_at < ?", expiryTime)
	if err != nil {
		return fmt.Errorf("failed to delete expired database entries: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	logger.Info("Cleaned up expired cache entries",
		zap.Int("files_deleted", deletedCount),
		zap.Int64("db_entries_deleted", rowsAffected))

	return nil
}

// ClearAllCache removes all cache files and database entries
func ClearAllCache() error {
	db := localdb.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	rows, err := db.Query("SELECT file_path FROM cache_entries")
	if err != nil {
		return fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	var filesToDelete []string
	for rows.Next() {
		var filePath string
		if err := rows.Scan(&filePath); err != nil {
			logger.Warn("Failed to scan file path", zap.Error(err))
			continue
		}
		filesToDelete = append(filesToDelete, filePath)
	}

	deletedCount := 0
	for _, filePath := range filesToDelete {
		if err := os.Remove(filePath); err != nil {
			logger.Warn("Failed to delete cache file", zap.String("path", filePath), zap.Error(err))
		} else {
			deletedCount++
		}
	}

	result, err := db.Exec("DELETE FROM cache_entries")
	if err != nil {
		return fmt.Errorf("failed to clear cache entries: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	logger.Info("Cleared all cache",
		zap.Int("files_deleted", deletedCount),
		zap.Int64("db_entries_deleted", rowsAffected))

	return nil
}

// CleanupOversizeCache removes least recently used files when the cache
// exceeds its size limit. Cleans down to 80% of the limit.
func CleanupOversizeCache() error {
	db := localdb.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	settings, err := GetCacheSettings()
	if err != nil {
		return fmt.Errorf("failed to get cache settings: %w", err)
	}

	stats, err := GetCacheStats()
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	maxSizeBytes := int64(settings.MaxSizeMB) * 1024 * 1024
	currentSizeBytes := int64(stats.TotalSizeMB * 1024 * 1024)

	if currentSizeBytes <= maxSizeBytes {
		return nil
	}

	logger.Info("Cache size exceeds limit, cleaning up oldest files",
		zap.Float64("current_size_mb", stats.TotalSizeMB),
		zap.Int("max_size_mb", settings.MaxSizeMB))

	targetSizeBytes := maxSizeBytes * 80 / 100
	bytesToDelete := currentSizeBytes - targetSizeBytes

	rows, err := db.Query(`SELECT id, file_path, file_size FROM cache_entries
		ORDER BY last_accessed_at ASC`)
	if err != nil {
		return fmt.Errorf("failed to query cache entries for cleanup: %w", err)
	}
	defer rows.Close()

	type victim struct {
		id   int64
		path string
		size int64
	}
	var filesToDelete []victim
	var deletedBytes int64

	for rows.Next() && deletedBytes < bytesToDelete {
		var v victim
		if err := rows.Scan(&v.id, &v.path, &v.size); err != nil {
			logger.Warn("Failed to scan cache entry for cleanup", zap.Error(err))
			continue
		}
		filesToDelete = append(filesToDelete, v)
		deletedBytes += v.size
	}

	deletedCount := 0
	for _, file := range filesToDelete {
		if err := os.Remove(file.path); err != nil {
			logger.Warn("Failed to delete cache file", zap.String("path", file.path), zap.Error(err))
		} else {
			deletedCount++
		}

		_, err := db.Exec("DELETE FROM cache_entries WHERE id = ?", file.id)
		if err != nil {
			logger.Warn("Failed to delete cache entry from database", zap.Int64("id", file.id), zap.Error(err))
		}
	}

	logger.Info("Cleaned up oversized cache",
		zap.Int("files_deleted", deletedCount),
		zap.Int64("bytes_freed", deletedBytes))

	return nil
}

// InitializeCache performs initial cache setup and startup cleanup
func InitializeCache() error {
	logger.Info("Initializing voice cache")

	dir := paths.GetVoiceCacheDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create voice cache directory: %w", err)
	}

	db := localdb.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	settings, err := GetCacheSettings()
	if err != nil {
		logger.Error("Failed to get cache settings, using defaults", zap.Error(err))
		settings = &CacheSettings{
			ExpiryDays:     30,
			MaxSizeMB:      100,
			CleanupEnabled: true,
			CleanupOnStart: true,
		}
	}

	if settings.CleanupOnStart {
		if err := CleanupExpiredEntries(); err != nil {
			logger.Warn("Failed to cleanup expired entries on startup", zap.Error(err))
		}
		if err := CleanupOversizeCache(); err != nil {
			logger.Warn("Failed to cleanup oversized cache on startup", zap.Error(err))
		}
	}

	stats, err := GetCacheStats()
	if err != nil {
		logger.Warn("Failed to get cache stats during initialization", zap.Error(err))
	} else {
		logger.Info("Voice cache initialized",
			zap.Int("total_files", stats.TotalFiles),
			zap.Float64("total_size_mb", stats.TotalSizeMB),
			zap.String("cache_dir", dir))
	}

	return nil
}
