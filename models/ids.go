// ABOUTME: Client-side record key generation
// ABOUTME: Timestamp-derived keys using ULID (default) or UUIDv7
package models

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDScheme selects how an IDGenerator derives record keys.
type IDScheme string

const (
	IDSchemeULID IDScheme = "ulid"
	IDSchemeUUID IDScheme = "uuid"
)

func (s IDScheme) Valid() bool {
	return s == IDSchemeULID || s == IDSchemeUUID
}

// IDGenerator produces timestamp-derived, non-colliding record keys.
type IDGenerator struct {
	scheme  IDScheme
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewIDGenerator returns a generator for the given scheme.
func NewIDGenerator(scheme IDScheme) (*IDGenerator, error) {
	if scheme == "" {
		scheme = IDSchemeULID
	}
	if !scheme.Valid() {
		return nil, fmt.Errorf("unknown id scheme: %s (valid: ulid, uuid)", scheme)
	}
	return &IDGenerator{
		scheme:  scheme,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// NewID returns a fresh key.
func (g *IDGenerator) NewID() string {
	if g.scheme == IDSchemeUUID {
		return uuid.Must(uuid.NewV7()).String()
	}

	// Monotonic entropy is not safe for concurrent use
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String()
}
