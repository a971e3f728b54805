package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/cassette/pkg/cliui"
	"github.com/papercomputeco/cassette/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the config.toml file
stored in the .cassette/ directory. Keys use dotted notation matching
the TOML section structure.

Valid keys:
  storage.provider, storage.path,
  api.listen,
  weather.api_key, weather.base_url, weather.timeout,
  safety.blocked_keywords,
  eventstream.provider, eventstream.brokers, eventstream.topic,
  assistant.reply_delay, assistant.tone

Values are validated: storage.provider must be a known provider, durations
must parse (e.g. "350ms", "5s") and assistant.tone must be friendly,
concise or direct. Changes to safety.blocked_keywords are picked up by a
running "cassette serve".

Examples:
  cassette config set storage.provider sqlite
  cassette config set weather.timeout 3s
  cassette config set eventstream.brokers localhost:9092,localhost:9093`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cmd.OutOrStdout(), args[0], args[1], configDir)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runSet(out io.Writer, key, value, configDir string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	// Echo the stored form, e.g. a lower-cased tone or trimmed keyword list.
	stored, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n  %s Set %s = %s %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		renderValue(stored),
		cliui.DimStyle.Render("("+cfger.GetTarget()+")"),
	)
	return nil
}
