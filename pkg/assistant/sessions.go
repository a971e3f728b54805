package assistant

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/cassette/pkg/activity"
	"github.com/papercomputeco/cassette/pkg/memory"
	"github.com/papercomputeco/cassette/pkg/storage"
)

// DefaultSessionID names the session backed by the single-user memory key.
const DefaultSessionID = "default"

// ErrSessionNotFound is returned by Sessions.Get for an unknown id.
var ErrSessionNotFound = errors.New("session not found")

// Sessions is a registry of live sessions sharing one assistant and one
// storage driver. Each session's memory lives under its own key, so two
// sessions never observe each other's record.
type Sessions struct {
	assistant *Assistant
	driver    storage.Driver

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates a registry holding the default session.
func NewSessions(a *Assistant, driver storage.Driver) (*Sessions, error) {
	if driver == nil {
		return nil, errors.New("storage driver is required")
	}

	r := &Sessions{
		assistant: a,
		driver:    driver,
		sessions:  make(map[string]*Session),
	}

	if _, err := r.open(DefaultSessionID); err != nil {
		return nil, err
	}
	return r, nil
}

// Create opens a new session with a fresh id.
func (r *Sessions) Create() (*Session, error) {
	return r.open(uuid.NewString())
}

// Get returns the session with the given id.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Default returns the default session.
func (r *Sessions) Default() *Session {
	s, _ := r.Get(DefaultSessionID)
	return s
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Open creates a standalone session outside of any registry. It is what the
// interactive chat uses: one user, the default memory key.
func (a *Assistant) Open(id string, driver storage.Driver) (*Session, error) {
	key := memory.DefaultKey
	if id != DefaultSessionID {
		key = memory.SessionKey(id)
	}

	logger := a.logger.With("session", id)
	log := activity.NewLog(logger)

	store, err := memory.NewStore(memory.Config{
		Driver:   driver,
		Key:      key,
		Logger:   logger,
		Recorder: log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating memory store: %w", err)
	}

	return a.NewSession(id, store, log), nil
}

func (r *Sessions) open(id string) (*Session, error) {
	s, err := r.assistant.Open(id, r.driver)
	if err != nil {
		return nil, err
	}
	s.log.Record("App initialized", id)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	return s, nil
}
