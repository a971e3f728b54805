// Package configcmder provides the config command for managing persistent
// cassette configuration stored in the .cassette/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent cassette configuration.

Configuration is stored as config.toml in the .cassette/ directory and
provides default values for command flags. CLI flags and CASSETTE_*
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.path,
  api.listen,
  weather.api_key, weather.base_url, weather.timeout,
  safety.blocked_keywords,
  eventstream.provider, eventstream.brokers, eventstream.topic,
  assistant.reply_delay, assistant.tone

List values are written comma separated.

Use subcommands to get, set, or list configuration values:
  cassette config set <key> <value>    Set a configuration value
  cassette config get <key>            Get a configuration value
  cassette config list                 List all configuration values

Examples:
  cassette config set storage.provider sqlite
  cassette config set safety.blocked_keywords "password,ssn,rm -rf"
  cassette config get weather.timeout
  cassette config list`

const configShortDesc string = "Manage persistent cassette configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
