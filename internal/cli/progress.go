package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/habit-tracker/internal/config"
	"github.com/modu-ai/habit-tracker/internal/ui"
)

const markdownWidth = 100

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show completion over the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDeps()
			if err != nil {
				return err
			}
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			days := getIntFlag(cmd, "days")
			if days == 0 {
				days = config.DefaultHistoryDays
				if cfg := d.Config.Get(); cfg != nil {
					days = cfg.UI.HistoryDays
				}
			}
			if days < 1 || days > config.MaxHistoryDays {
				return fmt.Errorf("--days must be between 1 and %d", config.MaxHistoryDays)
			}

			l, err := d.Store.List(cmd.Context(), date)
			if err != nil {
				return err
			}
			report := ui.NewProgressReport(l, days)
			out := cmd.OutOrStdout()

			if !getBoolFlag(cmd, "markdown") {
				_, _ = fmt.Fprintln(out, d.Theme.ProgressGrid(report))
				return nil
			}

			plain := d.Theme.NoColor || !ui.IsTerminalWriter(out)
			rendered, err := ui.RenderMarkdown(ui.ProgressMarkdown(report), plain, markdownWidth)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(out, rendered)
			return nil
		},
	}
	cmd.Flags().Int("days", 0, "number of days to show, 1-31 (default from config)")
	cmd.Flags().String("date", "", "last day of the window YYYY-MM-DD (default today)")
	cmd.Flags().Bool("markdown", false, "render the report as markdown")
	return cmd
}
