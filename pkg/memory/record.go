package memory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tone selects the template of the fallback reply.
type Tone string

const (
	ToneFriendly Tone = "friendly"
	ToneConcise  Tone = "concise"
	ToneDirect   Tone = "direct"
)

// Tones lists the recognized tones in display order.
var Tones = []Tone{ToneFriendly, ToneConcise, ToneDirect}

// Valid reports whether t is one of the recognized tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneFriendly, ToneConcise, ToneDirect:
		return true
	}
	return false
}

// ParseTone parses a user-supplied tone, case-insensitively.
// An empty string parses as ToneFriendly.
func ParseTone(s string) (Tone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ToneFriendly, nil
	}

	t := Tone(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (available: friendly, concise, direct)", ErrInvalidTone, s)
	}
	return t, nil
}

// Record is the flat, persisted user-preference state.
//
// Note is nil until the user asks the assistant to remember something; it
// serializes as JSON null.
type Record struct {
	Name string  `json:"name"`
	Tone Tone    `json:"tone"`
	Note *string `json:"note"`
}

// Empty returns the record used when nothing is stored.
func Empty() Record {
	return Record{Tone: ToneFriendly}
}

// HasNote reports whether a non-empty note is remembered.
func (r Record) HasNote() bool {
	return r.Note != nil && *r.Note != ""
}

// NoteText returns the note, or "" if none.
func (r Record) NoteText() string {
	if r.Note == nil {
		return ""
	}
	return *r.Note
}

// String renders the record as compact JSON.
func (r Record) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// normalized returns a copy whose tone is always a recognized value.
// Unknown or empty tones fall back to friendly.
func (r Record) normalized() Record {
	if !r.Tone.Valid() {
		r.Tone = ToneFriendly
	}
	if r.Note != nil {
		n := *r.Note
		r.Note = &n
	}
	return r
}

// NoteOf is a convenience for building records with a note.
func NoteOf(s string) *string {
	return &s
}
