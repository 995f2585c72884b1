package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/tasks"
	"github.com/Tiliavir/tcheck/internal/tracker"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Fetch the task list",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

func runTasks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.tracker.FetchTasks(ctx); err != nil {
		if errors.Is(err, tracker.ErrNoTaskSource) {
			return withCode(1, errors.New(`no task list configured: set "tasks.login_url" and "tasks.list_url" in the config file`))
		}
		return withCode(2, nil)
	}

	list := s.tracker.Tasks()
	if len(list) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, t := range list {
		line := fmt.Sprintf("%6d  %s", t.ID, t.Name)
		switch {
		case t.Spent != nil && t.Total != nil:
			line += fmt.Sprintf(" [%s / %s]", *t.Spent, *t.Total)
		case t.Spent != nil:
			line += fmt.Sprintf(" [%s]", *t.Spent)
		}
		fmt.Println(line)
		if u := tasks.URL(s.cfg.Tasks.TaskURLPrefix, t.ID); u != "" {
			fmt.Printf("        %s\n", u)
		}
	}
	return nil
}
