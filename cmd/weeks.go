package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/timecalc"
)

var weeksMonth string

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "List the week starts of a month",
	Args:  cobra.NoArgs,
	RunE:  runWeeks,
}

func init() {
	weeksCmd.Flags().StringVar(&weeksMonth, "month", "", "Month to list (YYYY-MM, default current month)")
}

func runWeeks(cmd *cobra.Command, args []string) error {
	month := time.Now()
	if weeksMonth != "" {
		t, err := time.ParseInLocation("2006-01", weeksMonth, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", weeksMonth)
		}
		month = t
	}

	current := timecalc.Monday(time.Now())
	for _, start := range timecalc.WeekStarts(month.Year(), month.Month(), time.Local) {
		mark := " "
		if start.Equal(current) {
			mark = "*"
		}
		fmt.Printf("%s %s  %s\n", mark, timecalc.ISOWeekLabel(start), start.Format("2006-01-02"))
	}
	return nil
}
