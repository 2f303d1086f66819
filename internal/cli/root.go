package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modu-ai/habit-tracker/pkg/version"
)

// NewRootCmd builds the habit command tree. Each call returns fresh
// commands with fresh flag state.
func NewRootCmd() *cobra.Command {
	var opts GlobalOptions

	root := &cobra.Command{
		Use:   "habit",
		Short: "Track daily habits from the terminal",
		Long: `habit keeps a list of named daily habits and records the days each
one was completed. Habits are addressed by their number in "habit list".

Data lives in ~/.habit by default; see --config-dir and HABIT_CONFIG_DIR.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return nil
			}
			d, err := InitDependencies(opts, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			deps = d
			return nil
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("habit %s\n", version.GetVersion()))

	pf := root.PersistentFlags()
	pf.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.habit)")
	pf.StringVar(&opts.DataFile, "data", "", "data file path, overriding the configured location")
	pf.StringVar(&opts.Driver, "driver", "", "storage driver: json or sqlite")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(),
		newAddCmd(),
		newToggleCmd(),
		newDeleteCmd(),
		newProgressCmd(),
		newTrackCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return root
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the habit CLI
// @MX:REASON: [AUTO] fan_in=1, called from cmd/habit/main.go; owns signal handling and resource cleanup
// Execute runs the root command until it finishes or the process is
// interrupted, then releases storage resources.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	if d := GetDeps(); d != nil {
		if cerr := d.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		_, _ = fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// getIntFlag retrieves an int flag value from the command.
func getIntFlag(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return val
}
