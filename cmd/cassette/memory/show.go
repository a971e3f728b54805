package memorycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/cassette/pkg/cliui"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the memory record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer h.Close()

			rec := h.store.Load(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Record:"), cliui.DimStyle.Render(h.store.Key()))
			fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("name"), orNotSet(rec.Name))
			fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("tone"), cliui.ValueStyle.Render(string(rec.Tone)))
			fmt.Fprintf(out, "  %s  %s\n\n", cliui.KeyStyle.Render("note"), orNotSet(rec.NoteText()))
			fmt.Fprintln(out, "Memory: "+rec.String())
			return nil
		},
	}

	addStoreFlags(cmd)

	return cmd
}

func orNotSet(v string) string {
	if v == "" {
		return cliui.DimStyle.Render("<not set>")
	}
	return cliui.ValueStyle.Render(v)
}
