// Package memorycmder provides the memory command for inspecting and editing
// the persisted memory record without starting a chat.
package memorycmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/cassette/pkg/bootstrap"
	"github.com/papercomputeco/cassette/pkg/config"
	"github.com/papercomputeco/cassette/pkg/logger"
	"github.com/papercomputeco/cassette/pkg/memory"
	"github.com/papercomputeco/cassette/pkg/storage"
)

const memoryLongDesc string = `Inspect and edit the assistant's memory record.

The record holds your name, the reply tone (friendly, concise or direct)
and one remembered note. It is read from the configured storage provider,
the same one "cassette chat" uses.

Use subcommands:
  cassette memory show                         Print the record
  cassette memory set --name Ada --tone direct Save name and tone, keep the note
  cassette memory clear                        Remove the record

Pass --session to address the record of an API session instead of the
chat record.`

const memoryShortDesc string = "Inspect and edit the memory record"

func NewMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: memoryShortDesc,
		Long:  memoryLongDesc,
	}

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newClearCmd())

	return cmd
}

// addStoreFlags registers the flags every subcommand needs to address a
// record.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("session", "", "API session id (default: the chat record)")
	config.AddStringFlag(cmd, config.Flags, config.FlagStorageProvider, new(string))
	config.AddStringFlag(cmd, config.Flags, config.FlagStoragePath, new(string))
}

// storeHandle is an open memory store plus the driver to close afterwards.
type storeHandle struct {
	store    *memory.Store
	driver   storage.Driver
	settings *config.Settings
}

func (h *storeHandle) Close() error {
	return h.driver.Close()
}

// openStore resolves settings for cmd and opens the addressed record.
func openStore(ctx context.Context, cmd *cobra.Command) (*storeHandle, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	configDir, _ := cmd.Flags().GetString("config-dir")
	session, _ := cmd.Flags().GetString("session")

	// Storage selection chatter stays out of command output unless debugging.
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagStorageProvider,
		config.FlagStoragePath,
	})

	settings, err := config.Resolve(v)
	if err != nil {
		return nil, err
	}

	driver, err := bootstrap.NewDriver(ctx, settings, configDir, log)
	if err != nil {
		return nil, err
	}

	store, err := memory.NewStore(memory.Config{
		Driver: driver,
		Key:    memory.SessionKey(session),
		Logger: log,
	})
	if err != nil {
		driver.Close()
		return nil, err
	}

	return &storeHandle{store: store, driver: driver, settings: settings}, nil
}
