// ABOUTME: Runtime configuration loaded from the environment and an optional .env file
// ABOUTME: Resolves storage location under the XDG data directory
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/persist"
)

// AppDir is the directory name used under XDG data home.
const AppDir = "energycrm"

// Config holds all application configuration.
type Config struct {
	DataDir       string                `env:"DATA_DIR"`
	Backend       persist.Kind          `env:"BACKEND" envDefault:"sqlite"`
	StorageKey    string                `env:"STORAGE_KEY" envDefault:"energy-crm-data"`
	StartupPolicy persist.StartupPolicy `env:"STARTUP_POLICY" envDefault:"reseed"`
	IDScheme      models.IDScheme       `env:"ID_SCHEME" envDefault:"ulid"`
	CharmHost     string                `env:"CHARM_HOST" envDefault:"charm.2389.dev"`
	AutoSync      bool                  `env:"AUTO_SYNC" envDefault:"true"`
	LogLevel      string                `env:"LOG_LEVEL" envDefault:"info"`
	WebAddr       string                `env:"WEB_ADDR" envDefault:"localhost:8080"`
}

// Prefix is prepended to every variable name.
const Prefix = "ENERGYCRM_"

// Load reads configuration from ENERGYCRM_* environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case persist.KindSQLite, persist.KindBadger, persist.KindCharm:
	default:
		return fmt.Errorf("invalid %sBACKEND %q (valid: sqlite, badger, charm)", Prefix, c.Backend)
	}
	if !c.StartupPolicy.Valid() {
		return fmt.Errorf("invalid %sSTARTUP_POLICY %q (valid: reseed, load)", Prefix, c.StartupPolicy)
	}
	if !c.IDScheme.Valid() {
		return fmt.Errorf("invalid %sID_SCHEME %q (valid: ulid, uuid)", Prefix, c.IDScheme)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DataPath returns the data directory, defaulting to ~/.local/share/energycrm.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, AppDir)
}

// StoragePath returns the SQLite file or Badger directory for the backend.
func (c *Config) StoragePath() string {
	switch c.Backend {
	case persist.KindBadger:
		return filepath.Join(c.DataPath(), "badger")
	default:
		return filepath.Join(c.DataPath(), "crm.db")
	}
}

// PersistOptions converts the config into backend options.
func (c *Config) PersistOptions() persist.Options {
	return persist.Options{
		Kind: c.Backend,
		Path: c.StoragePath(),
		Charm: persist.CharmConfig{
			Host:     c.CharmHost,
			AutoSync: c.AutoSync,
		},
	}
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("invalid %sLOG_LEVEL %q: %w", Prefix, s, err)
	}
	return level, nil
}
