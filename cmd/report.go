package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/projects"
	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

var (
	reportDate   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show per-project totals of a week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Any day of the week to report (YYYY-MM-DD, default today)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// projectTotal sums the closed intervals of one project. Raw is the exact
// span, Rounded the sum of quantum-rounded interval durations.
type projectTotal struct {
	Project    string `json:"project"`
	Label      string `json:"label"`
	RawMinutes int    `json:"raw_minutes"`
	Minutes    int    `json:"minutes"`
}

type weekReport struct {
	Week         string         `json:"week"`
	Projects     []projectTotal `json:"projects"`
	RawMinutes   int            `json:"raw_minutes"`
	TotalMinutes int            `json:"total_minutes"`
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.loadWeek(ctx, reportDate); err != nil {
		return err
	}

	r := buildReport(s.tracker.Week(), s.catalogue)
	switch reportFormat {
	case "csv":
		printReportCSV(os.Stdout, r)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	default: // md
		printReportMD(os.Stdout, r)
	}
	return nil
}

// buildReport aggregates the closed intervals of w by project, sorted by
// label. Intervals without project are reported under "".
func buildReport(w *week.Week, cat projects.Catalogue) weekReport {
	totals := map[string]*projectTotal{}
	r := weekReport{Week: timecalc.ISOWeekLabel(w.Start)}
	for _, wd := range week.Weekdays {
		for _, iv := range w.Intervals(wd) {
			p := iv.Start.ProjectString()
			t, ok := totals[p]
			if !ok {
				t = &projectTotal{Project: p, Label: cat.Label(p)}
				totals[p] = t
			}
			raw := int(iv.End.Time.Sub(iv.Start.Time).Minutes())
			t.RawMinutes += raw
			t.Minutes += iv.Minutes
			r.RawMinutes += raw
			r.TotalMinutes += iv.Minutes
		}
	}
	for _, t := range totals {
		r.Projects = append(r.Projects, *t)
	}
	sort.Slice(r.Projects, func(i, j int) bool {
		return r.Projects[i].Label < r.Projects[j].Label
	})
	return r
}

func reportLabel(t projectTotal) string {
	if t.Label == "" {
		return "(none)"
	}
	return t.Label
}

func printReportCSV(out io.Writer, r weekReport) {
	fmt.Fprintln(out, "project,label,raw_minutes,minutes")
	for _, t := range r.Projects {
		fmt.Fprintf(out, "%s,%s,%d,%d\n", csvEscape(t.Project), csvEscape(t.Label), t.RawMinutes, t.Minutes)
	}
}

func printReportMD(out io.Writer, r weekReport) {
	fmt.Fprintf(out, "Week %s\n", r.Week)
	fmt.Fprintln(out, "--------------------------------------")
	for _, t := range r.Projects {
		fmt.Fprintf(out, "%-24s%7s%7s\n", reportLabel(t), timecalc.HumanDuration(t.RawMinutes), timecalc.HumanDuration(t.Minutes))
	}
	fmt.Fprintln(out, "--------------------------------------")
	fmt.Fprintf(out, "%-24s%7s%7s\n", "Total", timecalc.HumanDuration(r.RawMinutes), timecalc.HumanDuration(r.TotalMinutes))
}
