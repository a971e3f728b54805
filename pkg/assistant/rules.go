package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/papercomputeco/cassette/pkg/memory"
	"github.com/papercomputeco/cassette/pkg/tools"
)

// Intent names, in dispatch order.
const (
	IntentSafety     = "safety"
	IntentRemember   = "remember"
	IntentShowMemory = "show_memory"
	IntentTime       = "time"
	IntentCalc       = "calc"
	IntentJoke       = "joke"
	IntentWeather    = "weather"
	IntentFallback   = "fallback"
)

// CalcApology is the reply to any expression that fails to evaluate.
const CalcApology = "Sorry, could not compute that expression safely."

var (
	rememberRe   = regexp.MustCompile(`(?i)^remember (?:that )?(.*)$`)
	showRe       = regexp.MustCompile(`(?i)^(show|what).*(memory|do you remember|what did)`)
	timeRe       = regexp.MustCompile(`(?i)time`)
	timeOfRe     = regexp.MustCompile(`(?i)what time of`)
	calcCmdRe    = regexp.MustCompile(`(?i)^(?:calc|calculate)\s+(.+)$`)
	calcBareRe   = regexp.MustCompile(`^([0-9.\s()+\-*/%]+)\s*$`)
	jokeRe       = regexp.MustCompile(`(?i)joke|tell me a joke|make me laugh`)
	weatherQRe   = regexp.MustCompile(`(?i)^(?:what's|what is) the weather in ([a-z\s\-']+)\??$`)
	weatherCmdRe = regexp.MustCompile(`(?i)^weather(?: in)?\s+([a-z\s\-']+)$`)
)

// rule is one intent: a predicate over the trimmed input and the handler
// that produces the reply. match returns the captured arguments.
type rule struct {
	intent string
	match  func(s *Session, input string) ([]string, bool)
	handle func(ctx context.Context, s *Session, input string, args []string) string
}

// builtinRules returns the intents in priority order. The first matching rule wins,
// so the order is part of the contract:
//
//  1. safety       blocked keyword, nothing else runs and memory is untouched
//  2. remember     "remember [that] X" stores X as the note
//  3. show_memory  "show/what ... memory/do you remember/what did"
//  4. time         contains "time" but not "what time of"
//  5. calc         "calc X", "calculate X", or input made only of digits and operators
//  6. joke         contains "joke" or "make me laugh"
//  7. weather      "weather [in] CITY", "what's/what is the weather in CITY"
//  8. fallback     tone-based echo, always matches
//
// calc must stay after remember/show/time so those phrases are never read as
// arithmetic. A lone number such as "2023" is classified as a calculation.
func builtinRules() []rule {
	return []rule{
		{intent: IntentSafety, match: matchSafety, handle: handleSafety},
		{intent: IntentRemember, match: matchRegexp(rememberRe), handle: handleRemember},
		{intent: IntentShowMemory, match: matchRegexp(showRe), handle: handleShowMemory},
		{intent: IntentTime, match: matchTime, handle: handleTime},
		{intent: IntentCalc, match: matchCalc, handle: handleCalc},
		{intent: IntentJoke, match: matchRegexp(jokeRe), handle: handleJoke},
		{intent: IntentWeather, match: matchWeather, handle: handleWeather},
		{intent: IntentFallback, match: matchAlways, handle: handleFallback},
	}
}

func matchRegexp(re *regexp.Regexp) func(*Session, string) ([]string, bool) {
	return func(_ *Session, input string) ([]string, bool) {
		m := re.FindStringSubmatch(input)
		if m == nil {
			return nil, false
		}
		return m[1:], true
	}
}

func matchAlways(*Session, string) ([]string, bool) {
	return nil, true
}

func matchSafety(s *Session, input string) ([]string, bool) {
	v := s.assistant.config.Safety.Check(input)
	if v.OK {
		return nil, false
	}
	return []string{v.Reason, v.Keyword}, true
}

func handleSafety(_ context.Context, s *Session, _ string, args []string) string {
	s.log.Record("Safety block", args[1])
	return args[0]
}

func handleRemember(ctx context.Context, s *Session, _ string, args []string) string {
	note := args[0]
	if _, err := s.memory.Remember(ctx, note); err != nil {
		s.assistant.logger.Error("failed to remember note", "session", s.id, "error", err)
		return "Sorry, I could not save that to memory."
	}
	return fmt.Sprintf("Okay — I will remember: \"%s\".", note)
}

func handleShowMemory(ctx context.Context, s *Session, _ string, _ []string) string {
	return "Memory: " + s.memory.Load(ctx).String()
}

func matchTime(_ *Session, input string) ([]string, bool) {
	return nil, timeRe.MatchString(input) && !timeOfRe.MatchString(input)
}

func handleTime(ctx context.Context, s *Session, _ string, _ []string) string {
	s.log.Record("Tool called: "+tools.NameTime, "")
	now := s.assistant.config.Tools.Clock.Now()

	rec := s.memory.Load(ctx)
	prefix := ""
	if rec.Name != "" {
		prefix = rec.Name + ", "
	}
	return prefix + "the current time is " + now + "."
}

func matchCalc(_ *Session, input string) ([]string, bool) {
	if m := calcCmdRe.FindStringSubmatch(input); m != nil {
		return m[1:], true
	}
	if m := calcBareRe.FindStringSubmatch(input); m != nil {
		return m[1:], true
	}
	return nil, false
}

func handleCalc(_ context.Context, s *Session, _ string, args []string) string {
	expr := strings.TrimSpace(args[0])
	s.log.Record("Tool called: "+tools.NameCalc, expr)

	result, err := tools.Calculate(expr)
	if err != nil {
		s.log.Record("Calc error", err.Error())
		s.assistant.logger.Debug("calculation failed", "session", s.id, "expr", expr, "error", err)
		return CalcApology
	}
	return "Result: " + result
}

func handleJoke(_ context.Context, s *Session, _ string, _ []string) string {
	s.log.Record("Tool called: "+tools.NameJoke, "")
	return s.assistant.config.Tools.Jokes.Pick()
}

func matchWeather(_ *Session, input string) ([]string, bool) {
	if m := weatherQRe.FindStringSubmatch(input); m != nil {
		return m[1:], true
	}
	if m := weatherCmdRe.FindStringSubmatch(input); m != nil {
		return m[1:], true
	}
	return nil, false
}

func handleWeather(ctx context.Context, s *Session, _ string, args []string) string {
	city := strings.TrimSpace(args[0])
	s.log.Record("Tool called: "+tools.NameWeather, city)

	report, err := s.assistant.config.Tools.Weather.Lookup(ctx, city)
	switch {
	case errors.Is(err, tools.ErrMissingArgument):
		return tools.WeatherUsage
	case err != nil:
		s.log.Record("Weather error", err.Error())
		return WeatherApology(city)
	}

	if report.ProviderErr != nil {
		s.log.Record("Weather provider error", report.ProviderErr.Error())
	}
	return report.Text
}

// WeatherApology is the reply when a weather lookup fails outright.
func WeatherApology(city string) string {
	return fmt.Sprintf("Sorry, I couldn't get the weather for %s right now.", city)
}

func handleFallback(ctx context.Context, s *Session, input string, _ []string) string {
	rec := s.memory.Load(ctx)

	var reply string
	switch rec.Tone {
	case memory.ToneConcise:
		reply = fmt.Sprintf("Received: \"%s\". Next?", input)
	case memory.ToneDirect:
		reply = fmt.Sprintf("You wrote: \"%s\". What is your desired action?", input)
	default:
		if rec.Name != "" {
			reply = "Hey " + rec.Name + "! "
		}
		reply += fmt.Sprintf("I heard: \"%s\". How can I help further?", input)
	}

	if rec.HasNote() {
		reply += fmt.Sprintf(" (Also, you asked me to remember: \"%s\".)", rec.NoteText())
	}
	return reply
}
