package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/week"
)

var (
	addMessage string
	addProject string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a checkpoint now",
	Long: `Record a checkpoint at the current time. The previous checkpoint of today
is closed by it, the new one stays open until the next checkpoint.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addMessage, "message", "m", "", "Message of the new checkpoint")
	addCmd.Flags().StringVarP(&addProject, "project", "p", "", "Project of the new checkpoint")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	today, err := week.FromTime(now.Weekday())
	if err != nil {
		return withCode(1, fmt.Errorf("checkpoints can only be recorded Monday to Friday (today is %s)", now.Weekday()))
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.loadWeek(ctx, ""); err != nil {
		return err
	}

	tr := s.tracker
	tr.Select(today, 0)
	if err := tr.Append(ctx); err != nil {
		return withCode(2, nil)
	}
	tr.Select(today, len(tr.Week().Day(today))-1)
	if addMessage != "" {
		if err := tr.Annotate(ctx, addMessage); err != nil {
			return withCode(2, nil)
		}
	}
	if addProject != "" {
		if err := tr.AssignProject(ctx, addProject); err != nil {
			return withCode(2, nil)
		}
	}

	c, _ := tr.Week().SelectedCheckpoint()
	fmt.Printf("Checkpoint at %s", c.Time.Format("15:04"))
	if p := c.ProjectString(); p != "" {
		fmt.Printf(" [%s]", s.catalogue.Label(p))
	}
	if m := c.MessageString(); m != "" {
		fmt.Printf(" %q", m)
	}
	fmt.Println()
	return nil
}
