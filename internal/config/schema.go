package config

import (
	"path/filepath"
	"time"
)

// Config is the top-level docqa configuration.
type Config struct {
	Backend  BackendConfig `mapstructure:"backend" yaml:"backend"`
	StateDir string        `mapstructure:"state_dir" yaml:"state_dir"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
}

// BackendConfig holds connection settings for the QA backend.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout bounds status, ask, health and clear requests.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// UploadTimeout bounds an upload including server-side ingestion.
	UploadTimeout time.Duration `mapstructure:"upload_timeout" yaml:"upload_timeout"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// SettingsPath is where user preferences such as the theme are persisted.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.StateDir, "settings.yml")
}

// LogPath is the diagnostic log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.StateDir, "docqa.log")
}
