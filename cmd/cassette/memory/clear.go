package memorycmder

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the memory record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.store.Clear(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Memory cleared.")
			return nil
		},
	}

	addStoreFlags(cmd)

	return cmd
}
