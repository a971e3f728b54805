// Package memory persists the assistant's single flat user record: a name, a
// reply tone and one remembered note.
//
// The Store has no merge semantics. Every write replaces the whole record and
// callers do their own read-modify-write. The last writer wins.
//
// Tone is normalized at this boundary, on both Load and Save, so a record
// handed to the rest of the system always carries a recognized tone.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/cassette/pkg/activity"
	"github.com/papercomputeco/cassette/pkg/storage"
)

// DefaultKey is the storage key of the single-user record.
const DefaultKey = "mcp_adv_memory"

// SessionKey returns the storage key for an isolated session record.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + sessionID
}

// Config holds the collaborators of a Store.
type Config struct {
	// Driver is the key-value slot the record lives in.
	Driver storage.Driver

	// Key is the storage key. Defaults to DefaultKey.
	Key string

	// Logger receives load/save failures.
	Logger *slog.Logger

	// Recorder receives user-facing activity entries. Optional.
	Recorder activity.Recorder
}

// Store loads and saves one Record.
type Store struct {
	driver   storage.Driver
	key      string
	logger   *slog.Logger
	recorder activity.Recorder
}

// NewStore creates a Store over the configured driver.
func NewStore(c Config) (*Store, error) {
	if c.Driver == nil {
		return nil, errors.New("storage driver is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.Recorder == nil {
		c.Recorder = activity.Discard
	}

	return &Store{
		driver:   c.Driver,
		key:      c.Key,
		logger:   c.Logger,
		recorder: c.Recorder,
	}, nil
}

// Key returns the storage key of the record.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored record. It never fails: a missing record, a driver
// error or an undecodable document all yield Empty(). Failures are logged.
func (s *Store) Load(ctx context.Context) Record {
	raw, err := s.driver.Get(ctx, s.key)
	if err != nil {
		if !storage.IsNotFound(err) {
			s.logger.Error("memory load failed", "key", s.key, "error", err)
			s.recorder.Record("Memory load error", err.Error())
		}
		rec := Empty()
		s.recorder.Record("Loaded memory", rec.String())
		return rec
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		err = fmt.Errorf("%w: %w", ErrStorageCorrupt, err)
		s.logger.Warn("discarding unreadable memory record", "key", s.key, "error", err)
		s.recorder.Record("Memory load error", err.Error())
		return Empty()
	}

	rec = rec.normalized()
	s.recorder.Record("Loaded memory", rec.String())
	return rec
}

// Save overwrites the stored record.
func (s *Store) Save(ctx context.Context, rec Record) error {
	rec = rec.normalized()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding memory record: %w", err)
	}

	if err := s.driver.Put(ctx, s.key, data); err != nil {
		s.logger.Error("memory save failed", "key", s.key, "error", err)
		return fmt.Errorf("saving memory record: %w", err)
	}

	s.recorder.Record("Saved memory", string(data))
	return nil
}

// Clear removes the whole record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.driver.Delete(ctx, s.key); err != nil {
		s.logger.Error("memory clear failed", "key", s.key, "error", err)
		return fmt.Errorf("clearing memory record: %w", err)
	}

	s.recorder.Record("Memory cleared", "")
	return nil
}

// Remember replaces the note and keeps the rest of the record.
func (s *Store) Remember(ctx context.Context, note string) (Record, error) {
	rec := s.Load(ctx)
	rec.Note = &note

	if err := s.Save(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec.normalized(), nil
}

// SaveSettings stores name and tone and keeps the current note. An empty
// note is dropped to null. Returns ErrInvalidTone for unknown tones without
// touching the stored record.
func (s *Store) SaveSettings(ctx context.Context, name, tone string) (Record, error) {
	t, err := ParseTone(tone)
	if err != nil {
		return Record{}, err
	}

	current := s.Load(ctx)
	rec := Record{
		Name: strings.TrimSpace(name),
		Tone: t,
	}
	if current.HasNote() {
		rec.Note = current.Note
	}

	if err := s.Save(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec.normalized(), nil
}
