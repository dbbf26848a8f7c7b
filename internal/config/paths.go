package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the Promptgate data directory.
// - Windows: %APPDATA%\promptgate
// - Other OS: ~/.promptgate
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "promptgate")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".promptgate"
	}
	return filepath.Join(home, ".promptgate")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// DBPath returns the path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "promptgate.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
