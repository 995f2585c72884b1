package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tcheck/internal/timecalc"
	"github.com/Tiliavir/tcheck/internal/week"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open checkpoint of today",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	day, err := s.store.Find(ctx, now)
	if err != nil {
		return withCode(2, err)
	}
	if len(day) == 0 {
		fmt.Println("No checkpoints today.")
		return nil
	}

	open := day[len(day)-1]
	elapsed := int64(now.Sub(open.Time).Seconds())
	fmt.Println("Open since:")
	fmt.Printf("  Time: %s (%s)\n", open.Time.Format("15:04"), open.RoundedTime().Format("15:04"))
	if p := open.ProjectString(); p != "" {
		fmt.Printf("  Project: %s\n", s.catalogue.Label(p))
	}
	if m := open.MessageString(); m != "" {
		fmt.Printf("  Message: %s\n", m)
	}
	if elapsed >= 0 {
		fmt.Printf("  Elapsed: %s (%s)\n", timecalc.FormatDurationHHMMSS(elapsed), formatElapsed(elapsed))
	}

	total := 0
	for _, iv := range week.Intervals(day) {
		total += iv.Minutes
	}
	fmt.Printf("Today: %s closed in %d intervals.\n", timecalc.HumanDuration(total), len(day)-1)
	return nil
}

// formatElapsed returns a short human-readable duration like "1h 2m 3s".
func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
