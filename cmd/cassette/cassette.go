// Package cassettecmder
package cassettecmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/cassette/cmd/cassette/chat"
	configcmder "github.com/papercomputeco/cassette/cmd/cassette/config"
	memorycmder "github.com/papercomputeco/cassette/cmd/cassette/memory"
	servecmder "github.com/papercomputeco/cassette/cmd/cassette/serve"
	statuscmder "github.com/papercomputeco/cassette/cmd/cassette/status"
	versioncmder "github.com/papercomputeco/cassette/cmd/version"
)

const cassetteLongDesc string = `Cassette is a small assistant with tools and memory.

It answers greetings, tells the time, evaluates arithmetic, looks up the
weather and tells jokes. Your name, preferred tone and one remembered note
persist between runs.

Run it using:
  cassette chat        Chat in the terminal
  cassette serve       Run the HTTP API and MCP server
  cassette status      Show whether a server is running
  cassette memory      Inspect or edit the remembered record
  cassette config      Manage persistent configuration`

const cassetteShortDesc string = "Cassette - a tool-using assistant with memory"

func NewCassetteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cassette",
		Short:        cassetteShortDesc,
		Long:         cassetteLongDesc,
		SilenceUsage:  true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .cassette/ config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(memorycmder.NewMemoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
