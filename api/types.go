package api

import (
	"github.com/papercomputeco/cassette/pkg/activity"
	"github.com/papercomputeco/cassette/pkg/memory"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse identifies a session.
type SessionResponse struct {
	ID string `json:"id"`
}

// MessageRequest is the body of POST /v1/sessions/:id/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// MessageResponse carries the assistant reply.
type MessageResponse struct {
	Reply string `json:"reply"`
}

// SettingsRequest is the body of PUT /v1/sessions/:id/memory. The note is
// kept as is.
type SettingsRequest struct {
	Name string `json:"name"`
	Tone string `json:"tone"`
}

// MemoryResponse wraps the persisted record.
type MemoryResponse struct {
	Memory memory.Record `json:"memory"`
}

// LogsResponse lists activity entries oldest first.
type LogsResponse struct {
	Entries []activity.Entry `json:"entries"`
}

// MessageResult is a plain status message, e.g. "Memory cleared.".
type MessageResult struct {
	Message string `json:"message"`
}
