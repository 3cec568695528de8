// ABOUTME: Single-writer state holder around the pure transition function
// ABOUTME: Serialises dispatches and notifies commit observers synchronously
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNotFound is returned by Dispatch when an update or delete names a key
// that is not in the collection. The state is left unchanged.
var ErrNotFound = errors.New("record not found")

// Commit describes one state transition that changed the snapshot.
type Commit struct {
	Action Action
	Prev   State
	Next   State
}

// Observer is invoked after every committed transition, on the dispatching
// goroutine, while the store is still held. Observers must not call Dispatch.
type Observer func(ctx context.Context, c Commit)

// Store holds the current snapshot. Construct one per process and pass it
// to the components that need it.
type Store struct {
	mu        sync.Mutex
	state     State
	observers map[int]Observer
	nextObsID int
	logger    *slog.Logger
	onResult  func(Action, error)
}

type Option func(*Store)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDispatchHook registers fn to receive the outcome of every Dispatch,
// including ones that matched nothing.
func WithDispatchHook(fn func(Action, error)) Option {
	return func(s *Store) {
		s.onResult = fn
	}
}

// WithInitialState starts the store from a given snapshot instead of empty.
func WithInitialState(state State) Option {
	return func(s *Store) {
		s.state = state
	}
}

// New returns a store holding an empty snapshot.
func New(opts ...Option) *Store {
	s := &Store{
		observers: make(map[int]Observer),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action to the current snapshot and notifies observers.
// Unmatched updates and deletes return ErrNotFound and commit nothing.
func (s *Store) Dispatch(ctx context.Context, action Action) (err error) {
	if action == nil {
		return fmt.Errorf("nil action")
	}
	if s.onResult != nil {
		defer func() { s.onResult(action, err) }()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, matched := apply(prev, action)
	if !matched {
		s.logger.Debug("dispatch matched no record", "action", action.Type())
		return fmt.Errorf("%s: %w", action.Type(), ErrNotFound)
	}

	s.state = next
	s.logger.Debug("dispatch committed", "action", action.Type())

	commit := Commit{Action: action, Prev: prev, Next: next}
	for _, id := range s.observerIDs() {
		s.observers[id](ctx, commit)
	}
	return nil
}

// Subscribe registers an observer and returns a function that removes it.
// Observers run in subscription order.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) observerIDs() []int {
	ids := make([]int, 0, len(s.observers))
	for id := 0; id < s.nextObsID; id++ {
		if _, ok := s.observers[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
