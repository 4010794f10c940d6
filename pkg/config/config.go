// Package config loads stackswitch settings from the config file, a .env file
// and STACKSWITCH_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/stackswitch/cli/pkg/cache"
	"github.com/stackswitch/cli/pkg/directory"
	"github.com/stackswitch/cli/pkg/host"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "stackswitch"
	configFileName = "config.yaml"
	stateFileName  = "state.json"
	envPrefix      = "STACKSWITCH_"
)

// Config holds every tunable setting.
type Config struct {
	// ConsoleURL is a console page used when no --url is given
	ConsoleURL string `yaml:"console_url"`
	// CacheMaxAgeHours is the freshness window of cached directories
	CacheMaxAgeHours float64 `yaml:"cache_max_age_hours"`
	// FetchTimeout bounds each directory fetch, e.g. "15s"
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// HorizonVersion selects the directory table layout
	HorizonVersion string `yaml:"horizon_version"`
	// NameColumn and DescriptionColumn override the layout when >= 0
	NameColumn        int    `yaml:"name_column"`
	DescriptionColumn int    `yaml:"description_column"`
	StateDir          string `yaml:"state_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CacheMaxAgeHours:  cache.DefaultMaxAge.Hours(),
		FetchTimeout:      host.DefaultFetchTimeout,
		NameColumn:        -1,
		DescriptionColumn: -1,
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load reads path (a missing file is fine), then .env in the working
// directory, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("URL"); ok {
		c.ConsoleURL = v
	}
	if v, ok := get("CACHE_MAX_AGE_HOURS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_MAX_AGE_HOURS: %w", envPrefix, err)
		}
		c.CacheMaxAgeHours = f
	}
	if v, ok := get("FETCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sFETCH_TIMEOUT: %w", envPrefix, err)
		}
		c.FetchTimeout = d
	}
	if v, ok := get("HORIZON_VERSION"); ok {
		c.HorizonVersion = v
	}
	if v, ok := get("STATE_DIR"); ok {
		c.StateDir = v
	}
	return nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	if c.CacheMaxAgeHours <= 0 {
		return fmt.Errorf("cache_max_age_hours must be greater than zero, got %g", c.CacheMaxAgeHours)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative")
	}
	if _, err := c.Layout(); err != nil {
		return err
	}
	return nil
}

// MaxAge returns the freshness window as a duration.
func (c Config) MaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeHours * float64(time.Hour))
}

// Layout returns the directory table layout for the configured version and
// column overrides.
func (c Config) Layout() (directory.Layout, error) {
	l, err := directory.LayoutForVersion(c.HorizonVersion)
	if err != nil {
		return directory.Layout{}, err
	}
	return l.WithColumns(c.NameColumn, c.DescriptionColumn), nil
}

// StatePath returns the file holding the cache, allow-list and remembered page.
func (c Config) StatePath() (string, error) {
	dir := c.StateDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate cache directory: %w", err)
		}
		dir = filepath.Join(base, appName)
	}
	return filepath.Join(dir, stateFileName), nil
}
