package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive week view",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := newSession(ctx, true)
	if err != nil {
		return withCode(2, err)
	}
	defer s.close()

	app := tui.New(ctx, s.tracker, tui.Options{
		Catalogue:     s.catalogue,
		TaskURLPrefix: s.cfg.Tasks.TaskURLPrefix,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
