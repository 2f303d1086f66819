package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/habit-tracker/internal/statusline"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "One-line summary for shell prompts",
		Long: `Print today's progress on a single line, for use in a shell prompt
or a tmux status bar. When the habits cannot be read a short fallback
is printed and the problem is logged instead of failing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDeps()
			if err != nil {
				return err
			}
			mode, err := statusline.ParseMode(getStringFlag(cmd, "mode"))
			if err != nil {
				return err
			}
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			b := statusline.New(statusline.Options{
				Lister:  d.Store,
				Date:    date,
				Mode:    mode,
				NoColor: d.Theme.NoColor,
				Logger:  d.Logger,
			})
			line, _ := b.Build(cmd.Context())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	cmd.Flags().String("mode", string(statusline.ModeDefault), "minimal, default or verbose")
	cmd.Flags().String("date", "", "reference date YYYY-MM-DD (default today)")
	return cmd
}
