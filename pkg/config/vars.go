package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "cladedb"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/cladedb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/cladedb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/cladedb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/cladedb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// MissLogPath returns the path of the resolution miss log for the
// given config. Falls back to misses.log in the log directory when
// the config does not set one explicitly.
func (c *Config) MissLogPath() string {
	if c.Enrich.MissLog != "" {
		return c.Enrich.MissLog
	}
	return filepath.Join(LogDir(c.HomeDir), "misses.log")
}
