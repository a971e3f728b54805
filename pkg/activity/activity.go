// Package activity keeps the append-only, process-lifetime log of what the
// assistant did during a session: messages received, tools called, memory
// reads and writes, safety blocks.
//
// The log is separate from the structured service logger. It is user-facing
// (the REPL /logs command and the HTTP logs endpoint render it) and can be
// cleared by the user. Every entry is also mirrored to the slog logger at
// debug level.
package activity

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is a single activity log line.
type Entry struct {
	Time    time.Time `json:"ts"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
}

// String renders the entry the way the log panel displays it.
func (e Entry) String() string {
	s := e.Time.UTC().Format(time.RFC3339Nano) + " — " + e.Message
	if e.Detail != "" {
		s += " — " + e.Detail
	}
	return s
}

// Recorder is the write side of the activity log.
type Recorder interface {
	Record(message, detail string)
}

// Sink observes entries as they are appended.
type Sink interface {
	Observe(e Entry)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e Entry)

func (f SinkFunc) Observe(e Entry) { f(e) }

// Log is an append-only sequence of entries. It is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	sinks   []Sink

	logger *slog.Logger
	now    func() time.Time
}

// NewLog creates an empty log that mirrors entries to logger.
func NewLog(logger *slog.Logger) *Log {
	return &Log{
		logger: logger,
		now:    time.Now,
	}
}

// Record appends an entry and notifies sinks. Sinks are called outside the
// lock, in subscription order.
func (l *Log) Record(message, detail string) {
	e := Entry{
		Time:    l.now(),
		Message: message,
		Detail:  detail,
	}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	sinks := l.sinks
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Debug(message, "detail", detail)
	}

	for _, s := range sinks {
		s.Observe(e)
	}
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every entry and then records that the log was cleared.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	l.Record("Logs cleared", "")
}

// Subscribe registers a sink for future entries.
func (l *Log) Subscribe(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// copy-on-write so Record can iterate without holding the lock
	sinks := make([]Sink, len(l.sinks), len(l.sinks)+1)
	copy(sinks, l.sinks)
	l.sinks = append(sinks, s)
}

// Discard is a Recorder that drops everything.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(string, string) {}
