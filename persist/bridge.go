// ABOUTME: Persistence bridge between the store and a durable backend
// ABOUTME: Hydrates at startup (saved snapshot or seed data) and writes a snapshot after every commit
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/harperreed/energycrm/store"
)

// DefaultKey is the durable slot holding the snapshot.
const DefaultKey = "energy-crm-data"

// StartupPolicy decides what happens when a valid saved snapshot exists.
type StartupPolicy string

const (
	// PolicyReseed discards any saved snapshot and loads seed data. This is
	// the long-standing behaviour and remains the default until product
	// decides otherwise.
	PolicyReseed StartupPolicy = "reseed"
	// PolicyLoad hydrates from a valid saved snapshot.
	PolicyLoad StartupPolicy = "load"
)

func (p StartupPolicy) Valid() bool {
	return p == PolicyReseed || p == PolicyLoad
}

// WriteRecorder receives the outcome of each snapshot write.
type WriteRecorder interface {
	ObserveWrite(size int, err error)
}

// Bridge keeps a Backend and a Store eventually consistent.
type Bridge struct {
	backend  Backend
	key      []byte
	policy   StartupPolicy
	seed     func() store.Partial
	logger   *slog.Logger
	recorder WriteRecorder
	hydrated atomic.Bool
}

type BridgeOption func(*Bridge)

func WithKey(key string) BridgeOption {
	return func(b *Bridge) {
		if key != "" {
			b.key = []byte(key)
		}
	}
}

func WithStartupPolicy(p StartupPolicy) BridgeOption {
	return func(b *Bridge) {
		if p != "" {
			b.policy = p
		}
	}
}

func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func WithWriteRecorder(r WriteRecorder) BridgeOption {
	return func(b *Bridge) {
		b.recorder = r
	}
}

// NewBridge returns a bridge over backend. seed supplies the first-run
// dataset; it is called each time seeding is needed.
func NewBridge(backend Backend, seed func() store.Partial, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		backend: backend,
		key:     []byte(DefaultKey),
		policy:  PolicyReseed,
		seed:    seed,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach subscribes the bridge to s and hydrates it. The hydration commit
// itself is persisted, so the backend holds a full snapshot afterwards.
func (b *Bridge) Attach(ctx context.Context, s *store.Store) (func(), error) {
	unsubscribe := s.Subscribe(b.observe)
	if err := b.Hydrate(ctx, s); err != nil {
		unsubscribe()
		return nil, err
	}
	return unsubscribe, nil
}

// Hydrate loads the startup snapshot into s with a single load_data.
func (b *Bridge) Hydrate(ctx context.Context, s *store.Store) error {
	data, err := b.load()
	if err != nil {
		return err
	}

	b.hydrated.Store(true)
	if err := s.Dispatch(ctx, store.LoadData{Data: data}); err != nil {
		return fmt.Errorf("failed to hydrate store: %w", err)
	}
	return nil
}

func (b *Bridge) load() (store.Partial, error) {
	raw, err := b.backend.Get(b.key)
	switch {
	case errors.Is(err, ErrNotFound):
		b.logger.Info("no saved snapshot, loading seed data", "key", string(b.key))
		return b.seed(), nil
	case err != nil:
		return store.Partial{}, fmt.Errorf("failed to read saved snapshot: %w", err)
	}

	saved, err := DecodeSnapshot(raw)
	if err != nil {
		b.logger.Error("failed to load saved data, loading seed data", "key", string(b.key), "error", err)
		return b.seed(), nil
	}

	if b.policy == PolicyReseed {
		// Saved data parsed fine but is replaced anyway; see StartupPolicy.
		b.logger.Warn("discarding saved snapshot and reseeding", "key", string(b.key), "policy", string(b.policy))
		if err := b.backend.Delete(b.key); err != nil {
			b.logger.Error("failed to remove saved snapshot", "error", err)
		}
		return b.seed(), nil
	}

	b.logger.Info("loaded saved snapshot", "key", string(b.key), "users", len(*saved.Users))
	return saved, nil
}

// observe writes the full snapshot after each commit once hydration began.
// Failures are logged and recorded, never returned to the dispatcher.
func (b *Bridge) observe(_ context.Context, c store.Commit) {
	if !b.hydrated.Load() {
		return
	}
	if err := b.Save(c.Next); err != nil {
		b.logger.Error("failed to save snapshot", "action", c.Action.Type(), "error", err)
	}
}

// Save writes s to the durable slot, overwriting the previous value.
func (b *Bridge) Save(s store.State) error {
	data, err := EncodeSnapshot(s)
	if err == nil {
		err = b.backend.Set(b.key, data)
	}
	if b.recorder != nil {
		b.recorder.ObserveWrite(len(data), err)
	}
	return err
}

// Clear removes the durable slot. The next startup loads seed data.
func (b *Bridge) Clear() error {
	if err := b.backend.Delete(b.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear saved data: %w", err)
	}
	return nil
}

// Saved reads and decodes the current durable snapshot.
func (b *Bridge) Saved() (store.Partial, error) {
	raw, err := b.backend.Get(b.key)
	if err != nil {
		return store.Partial{}, err
	}
	return DecodeSnapshot(raw)
}
