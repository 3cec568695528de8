// ABOUTME: Record operations shared by the CLI, MCP, web and TUI surfaces
// ABOUTME: Applies form defaults and required-field checks, then dispatches to the store
package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// ErrInvalid marks input that fails a required-field or value check.
var ErrInvalid = errors.New("invalid input")

// DefaultCountry is filled into empty location countries on create.
const DefaultCountry = "USA"

// Service creates, updates and deletes records through a store.
type Service struct {
	store *store.Store
	ids   *models.IDGenerator
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now for created and last-contact dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the key generator for new records.
func WithIDGenerator(ids *models.IDGenerator) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

func New(s *store.Store, opts ...Option) *Service {
	ids, _ := models.NewIDGenerator(models.IDSchemeULID)
	svc := &Service{store: s, ids: ids, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store { return s.store }

// State returns the current snapshot.
func (s *Service) State() store.State { return s.store.State() }

// Now returns the service clock.
func (s *Service) Now() time.Time { return s.now() }

func (s *Service) newID() string { return s.ids.NewID() }

// fieldErrors collects required-field failures into one error.
type fieldErrors []string

func (f *fieldErrors) require(name, value string) {
	if strings.TrimSpace(value) == "" {
		*f = append(*f, name+" is required")
	}
}

func (f *fieldErrors) check(ok bool, msg string, args ...any) {
	if !ok {
		*f = append(*f, fmt.Sprintf(msg, args...))
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(f, "; "))
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}

// update looks up id, lets mutate change a copy, validates and dispatches.
func update[T any](ctx context.Context, s *Service, id string, find func(store.State, string) (T, bool), mutate func(*T), validate func(T) error, action func(T) store.Action) (T, error) {
	var zero T
	current, ok := find(s.store.State(), id)
	if !ok {
		return zero, fmt.Errorf("%s: %w", id, store.ErrNotFound)
	}
	if mutate != nil {
		mutate(&current)
	}
	if err := validate(current); err != nil {
		return zero, err
	}
	if err := s.store.Dispatch(ctx, action(current)); err != nil {
		return zero, err
	}
	return current, nil
}
