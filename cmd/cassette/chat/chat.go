// Package chatcmder provides the chat command, an interactive terminal
// session with the assistant.
package chatcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/bootstrap"
	"github.com/papercomputeco/cassette/pkg/cliui"
	"github.com/papercomputeco/cassette/pkg/config"
	"github.com/papercomputeco/cassette/pkg/logger"
	"github.com/papercomputeco/cassette/pkg/storage"
)

type chatCommander struct {
	flags     config.FlagSet
	configDir string
	debug     bool

	storageProvider string
	storagePath     string
	weatherAPIKey   string
	replyDelay      time.Duration

	logger *slog.Logger
}

var chatFlags = []string{
	config.FlagStorageProvider,
	config.FlagStoragePath,
	config.FlagWeatherAPIKey,
	config.FlagReplyDelay,
}

const chatLongDesc string = `Start an interactive chat with the assistant.

The assistant answers from a fixed set of rules: it can tell the time,
evaluate arithmetic, tell jokes, report the weather and remember one note
about you. Requests containing blocked keywords are refused.

Memory is persisted through the configured storage provider, so what you
tell it survives restarts unless storage is "memory".

Slash commands: /help, /memory, /save <name> [tone], /forget, /logs,
/clear-logs, /exit.

Examples:
  cassette chat
  cassette chat --storage sqlite
  cassette chat --reply-delay 0s`

const chatShortDesc string = "Interactive chat with the assistant"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{
		flags: config.Flags,
	}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, cmder.flags, chatFlags)

			return cmder.run(cmd.Context(), v)
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStoragePath, &cmder.storagePath)
	config.AddStringFlag(cmd, cmder.flags, config.FlagWeatherAPIKey, &cmder.weatherAPIKey)
	config.AddDurationFlag(cmd, cmder.flags, config.FlagReplyDelay, &cmder.replyDelay)

	return cmd
}

func (c *chatCommander) run(ctx context.Context, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	// Logs go to stderr so they never interleave with replies on stdout.
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	settings, err := config.Resolve(v)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	var driver storage.Driver
	openDriver := func() error {
		var err error
		driver, err = bootstrap.NewDriver(ctx, settings, c.configDir, c.logger)
		return err
	}
	if interactive {
		err = cliui.Step(os.Stderr, "Opening "+settings.StorageProvider+" memory", openDriver)
	} else {
		err = openDriver()
	}
	if err != nil {
		return err
	}
	defer driver.Close()

	a, err := bootstrap.NewAssistant(settings, c.logger, nil)
	if err != nil {
		return fmt.Errorf("creating assistant: %w", err)
	}

	session, err := a.Open(assistant.DefaultSessionID, driver)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	session.Log().Record("App initialized", assistant.DefaultSessionID)

	r := &repl{
		session:     session,
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: interactive,
		defaultTone: settings.Tone,
	}
	return r.run(ctx)
}
