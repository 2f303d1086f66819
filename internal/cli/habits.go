package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/habit-tracker/internal/habit"
	"github.com/modu-ai/habit-tracker/internal/ui"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

// errNotInitialized is returned when a command runs without dependencies.
var errNotInitialized = errors.New("dependencies not initialized")

func requireDeps() (*Dependencies, error) {
	if deps == nil || deps.Store == nil {
		return nil, errNotInitialized
	}
	return deps, nil
}

// parsePosition converts a one-based CLI position to the store's
// zero-based position.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: must be a number from habit list", arg)
	}
	return n - 1, nil
}

// parseDateFlag returns the --date value, or the zero Date meaning today.
func parseDateFlag(cmd *cobra.Command) (models.Date, error) {
	raw := getStringFlag(cmd, "date")
	if raw == "" {
		return models.Date{}, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("--date: %w", err)
	}
	return d, nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show all habits with today's completion",
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

			l, err := d.Store.List(cmd.Context(), date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if getBoolFlag(cmd, "json") {
				return writeListingJSON(cmd, l)
			}
			_, _ = fmt.Fprintln(out, d.Theme.ListView(l))
			return nil
		},
	}
	cmd.Flags().String("date", "", "reference date YYYY-MM-DD (default today)")
	cmd.Flags().Bool("json", false, "print the listing as JSON")
	return cmd
}

// listingJSON is the --json output of habit list.
type listingJSON struct {
	Today  models.Date `json:"today"`
	Done   int         `json:"done"`
	Habits []habitJSON `json:"habits"`
}

type habitJSON struct {
	Position       int           `json:"position"`
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CompletedToday bool          `json:"completed_today"`
	CompletedDates []models.Date `json:"completed_dates"`
}

func writeListingJSON(cmd *cobra.Command, l *habit.Listing) error {
	doc := listingJSON{Today: l.Today, Done: l.DoneCount(), Habits: make([]habitJSON, 0, len(l.Habits))}
	for i, h := range l.Habits.Clone() {
		doc.Habits = append(doc.Habits, habitJSON{
			Position:       i + 1,
			ID:             h.ID,
			Name:           h.Name,
			CompletedToday: h.CompletedOn(l.Today),
			CompletedDates: h.CompletedDates,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [NAME...]",
		Short: "Add a habit",
		Long: `Add a habit. The arguments are joined into one name. Names are
trimmed and must be unique ignoring case. Without arguments the name is
prompted for on an interactive terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDeps()
			if err != nil {
				return err
			}

			name := strings.Join(args, " ")
			if len(args) == 0 {
				name, err = d.Prompter.AskName(cmd.Context())
				if errors.Is(err, ui.ErrHeadless) {
					return errors.New("habit name required: habit add NAME")
				}
				if errors.Is(err, ui.ErrCancelled) {
					return nil
				}
				if err != nil {
					return err
				}
			}

			res, err := d.Store.Add(cmd.Context(), name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.OK {
				_, _ = fmt.Fprintln(out, d.Theme.ErrorCard(res.Message, res.Err.Error()))
				return nil
			}
			_, _ = fmt.Fprintln(out, d.Theme.SuccessCard(res.Message, fmt.Sprintf("%d. %s", res.Position+1, res.Name)))
			return nil
		},
	}
}

func newToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle POSITION",
		Short: "Mark or unmark a habit as done",
		Long: `Flip the completion of the habit at POSITION (as numbered by
habit list) for today, or for --date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDeps()
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			date, err := parseDateFlag(cmd)
			if err != nil {
				return err
			}

			res, err := d.Store.Toggle(cmd.Context(), pos, date)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Applied() {
				_, _ = fmt.Fprintln(out, noHabitAt(d, args[0]))
				return nil
			}
			_, _ = fmt.Fprintln(out, d.Theme.ToggleMessage(res, d.Store.Today()))
			return nil
		},
	}
	cmd.Flags().String("date", "", "date to toggle YYYY-MM-DD (default today)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete POSITION",
		Short: "Delete a habit",
		Long: `Delete the habit at POSITION. Habits after it move up by one.
On an interactive terminal you are asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := requireDeps()
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if getBoolFlag(cmd, "yes") {
				res, err := d.Store.Delete(cmd.Context(), pos)
				if err != nil {
					return err
				}
				if !res.Removed {
					_, _ = fmt.Fprintln(out, noHabitAt(d, args[0]))
					return nil
				}
				_, _ = fmt.Fprintln(out, d.Theme.InfoCard(res.Message()))
				return nil
			}

			l, err := d.Store.List(cmd.Context(), models.Date{})
			if err != nil {
				return err
			}
			if !l.Habits.InRange(pos) {
				_, _ = fmt.Fprintln(out, noHabitAt(d, args[0]))
				return nil
			}
			target := l.Habits[pos]

			ok, err := d.Prompter.Confirm(cmd.Context(), fmt.Sprintf("Delete '%s'?", target.Name))
			switch {
			case errors.Is(err, ui.ErrHeadless):
				return errors.New("refusing to delete without confirmation: pass --yes")
			case errors.Is(err, ui.ErrCancelled):
				return nil
			case err != nil:
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(out, d.Theme.Muted().Render("Nothing deleted."))
				return nil
			}
			return deleteConfirmed(cmd, d, target)
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "delete without asking")
	return cmd
}

// deleteConfirmed removes the habit the user confirmed by its id, so a
// writer that shifted positions while the prompt was open cannot
// redirect the delete to another habit.
func deleteConfirmed(cmd *cobra.Command, d *Dependencies, h models.Habit) error {
	res, err := d.Store.DeleteID(cmd.Context(), h.ID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !res.Removed {
		_, _ = fmt.Fprintln(out, d.Theme.Muted().Render(fmt.Sprintf("'%s' was already removed. Nothing deleted.", h.Name)))
		return nil
	}
	_, _ = fmt.Fprintln(out, d.Theme.InfoCard(res.Message()))
	return nil
}

func noHabitAt(d *Dependencies, arg string) string {
	return d.Theme.Muted().Render(fmt.Sprintf("No habit at position %s. Run habit list to see positions.", arg))
}
