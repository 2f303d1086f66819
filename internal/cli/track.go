package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/modu-ai/habit-tracker/internal/ui"
)

func newTrackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Interactive tracker for today",
		Long: `Open a full-screen list of habits. Space toggles today's mark,
d twice deletes, q quits. Changes written by other habit processes show
up automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDeps()
			if err != nil {
				return err
			}
			if d.Headless.IsHeadless() {
				return errors.New("track needs an interactive terminal; use habit list and habit toggle instead")
			}
			return ui.RunTracker(cmd.Context(), d.Store, d.Theme, ui.TrackerOptions{
				DataPath:  d.Store.Location(),
				Logger:    d.Logger,
				AltScreen: true,
			})
		},
	}
}
