// Package statuscmder provides the status command for displaying whether a
// "cassette serve" process is running for the current .cassette directory.
package statuscmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/cassette/pkg/cliui"
	"github.com/papercomputeco/cassette/pkg/config"
	"github.com/papercomputeco/cassette/pkg/runstate"
	"github.com/papercomputeco/cassette/pkg/utils"
)

const statusLongDesc string = `Show the cassette server state.

Reads the local .cassette/ directory (or ~/.cassette/) for the state
recorded by "cassette serve": process id, API and MCP URLs, storage
provider and log file. A running server is pinged to confirm it responds.

A state file left by a process that no longer exists is reported as stale.

Examples:
  cassette status`

const statusShortDesc string = "Show cassette server state"

const pingTimeout = 2 * time.Second

type statusCommander struct {
	configDir string
	client    *http.Client
	out       io.Writer
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{
		client: &http.Client{},
	}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context())
		},
	}

	return cmd
}

func (c *statusCommander) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	manager, err := runstate.NewManager(c.configDir)
	if err != nil {
		return err
	}

	state, err := manager.LoadState()
	if err != nil {
		return fmt.Errorf("loading serve state: %w", err)
	}

	switch {
	case state == nil:
		fmt.Fprintf(c.out, "\n  %s Not running. Start with \"cassette serve\".\n", cliui.DimStyle.Render("●"))
	case !state.Alive():
		fmt.Fprintf(c.out, "\n  %s Stale state from pid %d. The server is not running.\n",
			cliui.FailMark, state.PID)
	default:
		c.printRunning(ctx, state)
	}

	return c.printConfig(manager.Dir)
}

func (c *statusCommander) printRunning(ctx context.Context, state *runstate.State) {
	fmt.Fprintf(c.out, "\n  %s Running\n\n", cliui.Mark(c.ping(ctx, state.APIURL)))
	c.row("PID:     ", strconv.Itoa(state.PID))
	c.row("API:     ", state.APIURL)
	c.row("MCP:     ", state.MCPURL)
	c.row("Storage: ", state.StorageProvider)
	c.row("Events:  ", state.EventStream)
	c.row("Uptime:  ", cliui.FormatDuration(time.Since(state.StartedAt)))
	c.row("Log:     ", utils.Truncate(state.LogPath, 72))
}

func (c *statusCommander) printConfig(dir string) error {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintf(c.out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Directory:"), cliui.DimStyle.Render(dir))
	c.row("storage.provider", cfg.Storage.Provider)
	c.row("api.listen      ", cfg.API.Listen)
	c.row("assistant.tone  ", cfg.Assistant.Tone)
	c.row("weather         ", weatherMode(cfg.Weather.APIKey))
	fmt.Fprintln(c.out)
	return nil
}

// ping reports whether the API answers GET /ping.
func (c *statusCommander) ping(ctx context.Context, apiURL string) error {
	if apiURL == "" {
		return fmt.Errorf("no api url recorded")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(apiURL, "/")+"/ping", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *statusCommander) row(key, value string) {
	if value == "" {
		value = cliui.DimStyle.Render("<not set>")
	} else {
		value = cliui.ValueStyle.Render(value)
	}
	fmt.Fprintf(c.out, "  %s  %s\n", cliui.KeyStyle.Render(key), value)
}

func weatherMode(apiKey string) string {
	if apiKey == "" {
		return "simulated"
	}
	return "live"
}
