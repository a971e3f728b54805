// Package assistant is the turn orchestrator. It classifies each user message
// into exactly one intent, invokes the matching tool or memory operation and
// returns a single reply string.
//
// Failures never escape a turn as errors: tool and storage problems resolve
// to an apology reply. The only errors Respond returns are ErrTurnInFlight and
// context cancellation during the reply delay.
package assistant

import (
	"errors"
	"log/slog"
	"time"

	"github.com/papercomputeco/cassette/pkg/safety"
	"github.com/papercomputeco/cassette/pkg/tools"
)

// WelcomeMessage is shown when a chat starts.
const WelcomeMessage = "Welcome to cassette — Tools + Memory + Safety (try the examples)"

// Examples are the prompts suggested alongside the welcome message.
var Examples = []string{
	"What time is it?",
	"calc 12 * (3 + 4)",
	"Tell me a joke",
	"weather in Paris",
	"remember that I like tea",
	"show memory",
}

// ErrTurnInFlight is returned when a message arrives for a session that is
// still producing the previous reply.
var ErrTurnInFlight = errors.New("a reply is already in progress for this session")

// Turn describes one completed exchange.
type Turn struct {
	SessionID string
	Intent    string
	Input     string
	Reply     string
	Started   time.Time
	Duration  time.Duration
}

// TurnHook observes completed turns. It is called synchronously on the
// responding goroutine and must not block.
type TurnHook func(Turn)

// Config holds the collaborators shared by every session.
type Config struct {
	// Tools backs the time, calc, joke and weather intents.
	Tools *tools.Toolbox

	// Safety is consulted before any other intent.
	Safety *safety.Filter

	Logger *slog.Logger

	// ReplyDelay is waited before each reply is produced. Zero disables it.
	ReplyDelay time.Duration

	// OnTurn is optional.
	OnTurn TurnHook
}

// Assistant holds the shared dispatch table. Per-user state lives in Session.
type Assistant struct {
	config Config
	logger *slog.Logger
	rules  []rule
}

// New creates an Assistant.
func New(c Config) (*Assistant, error) {
	if c.Tools == nil {
		return nil, errors.New("toolbox is required")
	}
	if c.Safety == nil {
		return nil, errors.New("safety filter is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	a := &Assistant{
		config: c,
		logger: c.Logger,
	}
	a.rules = builtinRules()
	return a, nil
}

// Tools returns the shared toolbox.
func (a *Assistant) Tools() *tools.Toolbox {
	return a.config.Tools
}

// Safety returns the shared safety filter.
func (a *Assistant) Safety() *safety.Filter {
	return a.config.Safety
}
