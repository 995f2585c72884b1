package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	backendFlag string
)

var rootCmd = &cobra.Command{
	Use:   "tcheck",
	Short: "tcheck – checkpoint based weekly time tracking",
	Long: `tcheck records checkpoints: points in time that split a working day into
intervals. Each interval carries the project, message and registration state
of the checkpoint it starts at.

Without a subcommand the interactive week view is started.`,
	Args: cobra.NoArgs,
	RunE: runUI,

	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		code, show := exitCode(err)
		if show {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tcheck/config.json)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Checkpoint store: files, sqlite or firestore")

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(weeksCmd)
	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}
