package memorycmder

import (
	"fmt"

	"github.com/spf13/cobra"
)

const setLongDesc string = `Save your name and reply tone.

The remembered note is kept. When --tone is omitted the configured
assistant.tone is used.

Examples:
  cassette memory set --name Ada
  cassette memory set --name Ada --tone concise`

func newSetCmd() *cobra.Command {
	var name, tone string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save name and tone",
		Long:  setLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer h.Close()

			if !cmd.Flags().Changed("tone") {
				tone = h.settings.Tone
			}

			rec, err := h.store.SaveSettings(cmd.Context(), name, tone)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Memory saved: "+rec.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your name")
	cmd.Flags().StringVar(&tone, "tone", "", "Reply tone: friendly, concise or direct")
	addStoreFlags(cmd)

	return cmd
}
