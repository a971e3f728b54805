package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTurnCompleted is emitted after the assistant replied to a message.
	EventTypeTurnCompleted = "cassette.turn.completed"
)

// TurnEvent is a transport-neutral event payload for a completed turn.
type TurnEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`
	SessionID     string    `json:"session_id"`
	Intent        string    `json:"intent"`
	Input         string    `json:"input"`
	Reply         string    `json:"reply"`
	DurationMs    int64     `json:"duration_ms"`
}

// NewTurnEvent stamps a fresh event id and emission time onto a turn.
func NewTurnEvent(sessionID, intent, input, reply string, duration time.Duration) *TurnEvent {
	return &TurnEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeTurnCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		SessionID:     sessionID,
		Intent:        intent,
		Input:         input,
		Reply:         reply,
		DurationMs:    duration.Milliseconds(),
	}
}
