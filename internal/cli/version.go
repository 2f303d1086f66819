package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/habit-tracker/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration or storage.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "habit %s\n", version.GetFullVersion())
			return nil
		},
	}
}
