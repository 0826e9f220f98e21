package paths

import (
	"os"
	"path/filepath"
)

// DataDir resolves the application data directory. ELYSIUM_DATA_DIR wins,
// otherwise a dot directory under the user home, otherwise the working dir.
func DataDir() string {
	if dir := os.Getenv("ELYSIUM_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".elysium")
}

// GetDBPath returns the sqlite database path.
func GetDBPath() string {
	return filepath.Join(DataDir(), "elysium.db")
}

// GetRecordingsDir returns the directory for uploaded voice recordings.
func GetRecordingsDir() string {
	return filepath.Join(DataDir(), "recordings")
}

// GetVoiceCacheDir returns the directory for cached voice archive assets.
func GetVoiceCacheDir() string {
	return filepath.Join(DataDir(), "voicecache")
}

// GetOutputDir returns the directory for rendered keepsake tickets.
func GetOutputDir() string {
	return filepath.Join(DataDir(), "output")
}

// EnsureDataDirs creates every directory the server writes to.
func EnsureDataDirs() error {
	for _, dir := range []string{
		DataDir(),
		GetRecordingsDir(),
		GetVoiceCacheDir(),
		GetOutputDir(),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
