package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/cliui"
	"github.com/papercomputeco/cassette/pkg/memory"
)

const helpText = `# cassette

Type a message and press Enter. Things to try:

- ` + "`What time is it?`" + `
- ` + "`calc 12 * (3 + 4)`" + ` or just ` + "`2+2`" + `
- ` + "`tell me a joke`" + `
- ` + "`weather in Paris`" + `
- ` + "`remember that I like tea`" + `, then ` + "`what do you remember?`" + `

## Commands

| Command | Effect |
|---|---|
| /help | show this help |
| /memory | show the stored memory record |
| /save <name> [tone] | save your name and reply tone (friendly, concise, direct) |
| /forget | clear the memory record |
| /logs | show the activity log |
| /clear-logs | clear the activity log |
| /exit | quit (Ctrl+D works too) |
`

// commands are the slash commands offered as suggestions.
var commands = []string{"/help", "/memory", "/save", "/forget", "/logs", "/clear-logs", "/exit", "/quit"}

// repl is the line-oriented chat loop over one session.
type repl struct {
	session *assistant.Session

	in  io.Reader
	out io.Writer

	// interactive enables prompts and markdown rendering.
	interactive bool

	// defaultTone is used by /save when no tone is given.
	defaultTone string
}

// run reads lines until EOF, /exit or ctx is done.
func (r *repl) run(ctx context.Context) error {
	r.banner()

	scanner := bufio.NewScanner(r.in)
	for {
		if r.interactive {
			fmt.Fprint(r.out, cliui.UserPrompt)
		}
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := r.command(ctx, input)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			continue
		}

		reply, err := r.session.Respond(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(r.out, "  %s %v\n", cliui.FailMark, err)
			continue
		}
		r.reply(reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func (r *repl) banner() {
	fmt.Fprintf(r.out, "\n  %s\n\n", assistant.WelcomeMessage)
	for _, ex := range assistant.Examples {
		fmt.Fprintf(r.out, "    %s %s\n", cliui.DimStyle.Render("•"), ex)
	}
	fmt.Fprintf(r.out, "\n  %s\n\n", cliui.DimStyle.Render("Type /help for commands, /exit or Ctrl+D to quit."))
}

func (r *repl) reply(text string) {
	if r.interactive {
		fmt.Fprint(r.out, cliui.AssistantPrompt)
	}
	fmt.Fprintln(r.out, text)
}

// command runs a slash command and reports whether the loop should stop.
func (r *repl) command(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case "/exit", "/quit":
		return true, nil

	case "/help":
		r.help()

	case "/memory":
		r.reply("Memory: " + r.session.Memory().Load(ctx).String())

	case "/save":
		r.save(ctx, args)

	case "/forget":
		if err := r.session.Memory().Clear(ctx); err != nil {
			r.reply(fmt.Sprintf("Could not clear memory: %v", err))
			break
		}
		r.reply("Memory cleared.")

	case "/logs":
		entries := r.session.Log().Entries()
		if len(entries) == 0 {
			r.reply("No activity yet.")
			break
		}
		for _, e := range entries {
			fmt.Fprintf(r.out, "  %s\n", cliui.DimStyle.Render(e.String()))
		}

	case "/clear-logs":
		r.session.Log().Clear()
		r.reply("Logs cleared.")

	default:
		msg := fmt.Sprintf("Unknown command %s.", name)
		if s := suggest(name); s != "" {
			msg += fmt.Sprintf(" Did you mean %s?", s)
		}
		r.reply(msg + " Type /help for the list.")
	}

	return false, nil
}

// save handles "/save <name...> [tone]". The last argument is the tone only
// when it names one, so "/save Ada Lovelace" keeps the whole name.
func (r *repl) save(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.reply("Usage: /save <name> [friendly|concise|direct]")
		return
	}

	name, tone := strings.Join(args, " "), r.defaultTone
	if last := args[len(args)-1]; len(args) > 1 {
		if _, err := memory.ParseTone(last); err == nil {
			name, tone = strings.Join(args[:len(args)-1], " "), last
		}
	}

	rec, err := r.session.Memory().SaveSettings(ctx, name, tone)
	if err != nil {
		if errors.Is(err, memory.ErrInvalidTone) {
			r.reply(fmt.Sprintf("Unknown tone %q. Use one of: friendly, concise, direct.", tone))
			return
		}
		r.reply(fmt.Sprintf("Could not save memory: %v", err))
		return
	}

	r.reply("Memory saved: " + rec.String())
}

func (r *repl) help() {
	if !r.interactive {
		fmt.Fprint(r.out, helpText)
		return
	}

	rendered, err := cliui.RenderMarkdown(helpText)
	if err != nil {
		fmt.Fprint(r.out, helpText)
		return
	}
	fmt.Fprint(r.out, rendered)
}

// suggest returns the best fuzzy match for a mistyped command, or "".
func suggest(name string) string {
	matches := fuzzy.Find(strings.ToLower(name), commands)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
