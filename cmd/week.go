package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/projects"
	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

var weekDate string

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the intervals of a week",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func init() {
	weekCmd.Flags().StringVar(&weekDate, "date", "", "Any day of the week to show (YYYY-MM-DD, default today)")
}

func runWeek(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.loadWeek(ctx, weekDate); err != nil {
		return err
	}
	printWeek(os.Stdout, s.tracker.Week(), s.catalogue)
	return nil
}

// printWeek writes one block per weekday followed by the unregistered list.
func printWeek(out io.Writer, w *week.Week, cat projects.Catalogue) {
	fmt.Fprintf(out, "Week %s (%s – %s)\n", timecalc.ISOWeekLabel(w.Start),
		w.Start.Format("2006-01-02"), w.Date(week.Friday).Format("2006-01-02"))

	for _, wd := range week.Weekdays {
		day := w.Day(wd)
		fmt.Fprintf(out, "\n%s %s\n", wd, w.Date(wd).Format("02.01."))
		if len(day) == 0 {
			fmt.Fprintln(out, "  –")
			continue
		}
		total := 0
		for _, iv := range w.Intervals(wd) {
			total += iv.Minutes
			mark := " "
			if iv.Start.Registered {
				mark = "✓"
			}
			fmt.Fprintf(out, "  %s %s–%s %6s  %-20s %s\n", mark,
				iv.Start.Time.Format("15:04"), iv.End.Time.Format("15:04"),
				timecalc.HumanDuration(iv.Minutes),
				cat.Label(iv.Start.ProjectString()), iv.Start.MessageString())
		}
		open := day[len(day)-1]
		fmt.Fprintf(out, "    %s open\n", open.Time.Format("15:04"))
		fmt.Fprintf(out, "  Σ %s\n", timecalc.HumanDuration(total))
	}

	list := w.Unregistered()
	fmt.Fprintln(out)
	if len(list) == 0 {
		fmt.Fprintln(out, "All intervals registered.")
		return
	}
	total := 0
	for _, u := range list {
		total += u.Minutes
	}
	fmt.Fprintf(out, "Unregistered (%d, %s):\n", len(list), timecalc.HumanDuration(total))
	for _, u := range list {
		fmt.Fprintf(out, "  %s %s %6s  %-20s %s\n",
			u.Checkpoint.Time.Format("Mon"), u.Checkpoint.Time.Format("15:04"),
			timecalc.HumanDuration(u.Minutes),
			cat.Label(u.Checkpoint.ProjectString()), u.Checkpoint.MessageString())
	}
}
