// ABOUTME: Charm KV backed key/value slot with optional auto-sync
// ABOUTME: Lets several devices share one CRM snapshot through a charm server

package persist

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// CharmAppName is the charm KV database name.
	CharmAppName = "energycrm"
)

// CharmConfig holds charm connection settings.
type CharmConfig struct {
	// Host is the charm server hostname
	Host string

	// AutoSync pushes to the server after every write and pulls on open
	AutoSync bool

	// Logger receives auto-sync failures. Defaults to slog.Default.
	Logger *slog.Logger
}

// charmKV is the part of charm's kv.KV the backend uses.
type charmKV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
}

// CharmBackend wraps charm KV with sync-after-write.
type CharmBackend struct {
	kv     charmKV
	config CharmConfig
	logger *slog.Logger
	mu     sync.RWMutex
}

// OpenCharm opens the charm KV database for this app.
func OpenCharm(cfg CharmConfig) (*CharmBackend, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}

	// Set charm host before opening KV
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(CharmAppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := newCharmBackend(db, cfg)
	// Sync on startup to pull remote changes
	c.autoSync("open")
	return c, nil
}

func newCharmBackend(store charmKV, cfg CharmConfig) *CharmBackend {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CharmBackend{kv: store, config: cfg, logger: logger}
}

// autoSync pushes and pulls when AutoSync is on. A failed sync leaves the
// local write in place, so it is logged rather than returned.
func (c *CharmBackend) autoSync(op string) {
	if !c.config.AutoSync {
		return
	}
	if err := c.kv.Sync(); err != nil {
		c.logger.Warn("charm auto-sync failed", "op", op, "host", c.config.Host, "error", err)
	}
}

func (c *CharmBackend) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, err := c.kv.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return value, err
}

func (c *CharmBackend) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}

	// Sync while still holding lock to avoid race condition
	c.autoSync("set")
	return nil
}

func (c *CharmBackend) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}

	c.autoSync("delete")
	return nil
}

// Sync performs a manual sync with the charm server.
func (c *CharmBackend) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

// Close is a no-op: charm/kv does not expose Close and the underlying
// BadgerDB is released on process exit.
func (c *CharmBackend) Close() error {
	return nil
}
