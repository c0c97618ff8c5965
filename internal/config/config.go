package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackwell-systems/docqa/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultTimeout       = 60 * time.Second
	DefaultUploadTimeout = 10 * time.Minute
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "docqa", "config.yml")
}

// Path resolves the config file: explicit path, then $DOCQA_CONFIG, then the default.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("DOCQA_CONFIG"); p != "" {
		return p
	}
	return DefaultPath()
}

// Load reads the config at path (see Path) layered over defaults and
// DOCQA_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("backend.base_url", DefaultBaseURL)
	v.SetDefault("backend.timeout", DefaultTimeout)
	v.SetDefault("backend.upload_timeout", DefaultUploadTimeout)
	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("DOCQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(Path(path))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.StateDir = ExpandHome(cfg.StateDir)
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url must not be empty")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend.base_url %q must start with http:// or https://", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 || c.Backend.UploadTimeout < 0 {
		return fmt.Errorf("backend timeouts must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// Default returns a config populated with defaults only.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:       DefaultBaseURL,
			Timeout:       DefaultTimeout,
			UploadTimeout: DefaultUploadTimeout,
		},
		StateDir: defaultStateDir(),
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	if err := util.EnsureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "docqa")
}
