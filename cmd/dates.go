package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List every date that has checkpoints",
	Args:  cobra.NoArgs,
	RunE:  runDates,
}

func runDates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	dates, err := s.tracker.DistinctDates(ctx)
	if err != nil {
		return withCode(2, nil)
	}
	if len(dates) == 0 {
		fmt.Println("No checkpoints recorded.")
		return nil
	}
	for _, d := range dates {
		fmt.Println(d.Format("2006-01-02 Mon"))
	}
	return nil
}
