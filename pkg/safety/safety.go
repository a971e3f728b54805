// Package safety implements the keyword blocklist that runs before any other
// intent. It is a case-folded substring check and nothing more: paraphrases
// get through, and innocent words that contain a keyword (e.g. "information"
// contains "format") are blocked. Neither is treated as a bug.
package safety

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// DefaultKeywords is the ordered blocklist used when none is configured.
var DefaultKeywords = []string{
	"delete all files",
	"rm -rf",
	"shutdown",
	"format",
	"password",
	"credit card",
	"ssn",
	"social security",
}

// Verdict is the result of a Check.
type Verdict struct {
	// OK is true when no keyword matched.
	OK bool

	// Reason is the user-facing block message. Empty when OK.
	Reason string

	// Keyword is the first matching keyword. Empty when OK.
	Keyword string
}

// Filter checks input against an ordered keyword list.
// The list can be swapped at runtime and is safe for concurrent use.
type Filter struct {
	keywords atomic.Pointer[[]string]
}

// NewFilter creates a Filter. A nil or empty list selects DefaultKeywords.
func NewFilter(keywords []string) *Filter {
	f := &Filter{}
	f.SetKeywords(keywords)
	return f
}

// SetKeywords replaces the blocklist. Keywords are lower-cased, blank
// entries dropped, order kept.
func (f *Filter) SetKeywords(keywords []string) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	kws := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		kws = append(kws, kw)
	}

	f.keywords.Store(&kws)
}

// Keywords returns a copy of the active blocklist.
func (f *Filter) Keywords() []string {
	kws := *f.keywords.Load()
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// Check lower-cases input and returns on the first keyword contained in it.
func (f *Filter) Check(input string) Verdict {
	lower := strings.ToLower(input)

	for _, kw := range *f.keywords.Load() {
		if strings.Contains(lower, kw) {
			return Verdict{
				OK:      false,
				Reason:  BlockReason(kw),
				Keyword: kw,
			}
		}
	}

	return Verdict{OK: true}
}

// BlockReason is the reply used when kw blocks a request.
func BlockReason(kw string) string {
	return fmt.Sprintf("Request blocked for safety or privacy: \"%s\"", kw)
}
