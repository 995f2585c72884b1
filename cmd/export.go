package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

var (
	exportDate   string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the intervals of a week to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Any day of the week to export (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

// exportRow is one closed interval.
type exportRow struct {
	Date       string    `json:"date"`
	Project    string    `json:"project"`
	Message    string    `json:"message"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Minutes    int       `json:"duration_minutes"`
	Registered bool      `json:"registered"`
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	if err := s.loadWeek(ctx, exportDate); err != nil {
		return err
	}

	rows := exportRows(s.tracker.Week())
	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(data))
	case "md":
		printMarkdown(os.Stdout, rows)
	default: // csv
		printCSV(os.Stdout, rows)
	}
	return nil
}

// exportRows flattens the closed intervals of w, Monday first.
func exportRows(w *week.Week) []exportRow {
	rows := []exportRow{}
	for _, wd := range week.Weekdays {
		for _, iv := range w.Intervals(wd) {
			rows = append(rows, exportRow{
				Date:       iv.Start.Time.Format("2006-01-02"),
				Project:    iv.Start.ProjectString(),
				Message:    iv.Start.MessageString(),
				Start:      iv.Start.Time,
				End:        iv.End.Time,
				Minutes:    iv.Minutes,
				Registered: iv.Start.Registered,
			})
		}
	}
	return rows
}

func printCSV(out io.Writer, rows []exportRow) {
	fmt.Fprintln(out, "date,project,message,start,end,duration_minutes,registered")
	for _, r := range rows {
		fmt.Fprintf(out, "%s,%s,%s,%s,%s,%d,%t\n",
			csvEscape(r.Date),
			csvEscape(r.Project),
			csvEscape(r.Message),
			csvEscape(r.Start.Format(time.RFC3339)),
			csvEscape(r.End.Format(time.RFC3339)),
			r.Minutes,
			r.Registered,
		)
	}
}

func printMarkdown(out io.Writer, rows []exportRow) {
	fmt.Fprintln(out, "| Date | Start | End | Duration | Project | Message | Registered |")
	fmt.Fprintln(out, "|---|---|---|---|---|---|---|")
	for _, r := range rows {
		reg := ""
		if r.Registered {
			reg = "✓"
		}
		fmt.Fprintf(out, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date, r.Start.Format("15:04"), r.End.Format("15:04"),
			timecalc.HumanDuration(r.Minutes), r.Project, r.Message, reg)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
