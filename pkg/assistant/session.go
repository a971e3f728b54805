package assistant

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/cassette/pkg/activity"
	"github.com/papercomputeco/cassette/pkg/memory"
)

// Session is one conversation: its own memory record, its own activity log,
// and at most one turn in flight.
type Session struct {
	id        string
	assistant *Assistant
	memory    *memory.Store
	log       *activity.Log

	// turn is held for the duration of Respond.
	turn sync.Mutex
}

// NewSession binds a memory store and activity log to the assistant.
func (a *Assistant) NewSession(id string, store *memory.Store, log *activity.Log) *Session {
	return &Session{
		id:        id,
		assistant: a,
		memory:    store,
		log:       log,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Memory returns the session's memory store.
func (s *Session) Memory() *memory.Store {
	return s.memory
}

// Log returns the session's activity log.
func (s *Session) Log() *activity.Log {
	return s.log
}

// Respond produces the reply to one user message. A second call while a
// reply is pending returns ErrTurnInFlight without touching any state.
func (s *Session) Respond(ctx context.Context, input string) (string, error) {
	if !s.turn.TryLock() {
		return "", ErrTurnInFlight
	}
	defer s.turn.Unlock()

	started := time.Now()
	input = strings.TrimSpace(input)
	s.log.Record("User message received", input)

	if d := s.assistant.config.ReplyDelay; d > 0 {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}

	reply, intent := s.dispatch(ctx, input)

	s.assistant.logger.Debug("turn complete",
		"session", s.id,
		"intent", intent,
		"duration", time.Since(started),
	)

	if hook := s.assistant.config.OnTurn; hook != nil {
		hook(Turn{
			SessionID: s.id,
			Intent:    intent,
			Input:     input,
			Reply:     reply,
			Started:   started,
			Duration:  time.Since(started),
		})
	}

	return reply, nil
}

// Classify returns the intent input would be dispatched to, without running
// it. Safety is evaluated but not recorded.
func (s *Session) Classify(input string) string {
	input = strings.TrimSpace(input)
	for _, r := range s.assistant.rules {
		if _, ok := r.match(s, input); ok {
			return r.intent
		}
	}
	return IntentFallback
}

func (s *Session) dispatch(ctx context.Context, input string) (string, string) {
	for _, r := range s.assistant.rules {
		args, ok := r.match(s, input)
		if !ok {
			continue
		}
		return r.handle(ctx, s, input, args), r.intent
	}

	// unreachable: the fallback rule always matches
	return handleFallback(ctx, s, input, nil), IntentFallback
}
