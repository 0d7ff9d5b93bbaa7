package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"superoutine/internal/analytics"
	"superoutine/internal/service/export"
)

func newStatsCmd(now func() time.Time) *cobra.Command {
	var (
		file  string
		day   int
		month string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute dashboard statistics from an exported data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := readBundle(file)
			if err != nil {
				return err
			}
			return runStats(cmd.OutOrStdout(), bundle, month, day, now())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "export file produced by GET /v1/export")
	cmd.Flags().IntVar(&day, "day", 0, "reference day (default: today, or the last day of a past month)")
	cmd.Flags().StringVar(&month, "month", "", "month to analyse, YYYY-MM (default: current month)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readBundle(path string) (*export.Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var b export.Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode export %s: %w", path, err)
	}
	return &b, nil
}

func runStats(w io.Writer, b *export.Bundle, month string, day int, now time.Time) error {
	period := analytics.PeriodOf(now)
	if month != "" {
		p, err := analytics.ParsePeriod(month)
		if err != nil {
			return err
		}
		period = p
	}
	if day == 0 {
		day = period.CurrentDay(now)
	}
	if day < 0 || day > period.DaysInMonth() {
		return fmt.Errorf("day %d is outside %s (1..%d)", day, period, period.DaysInMonth())
	}

	d := analytics.Compute(analytics.Snapshot{
		Period:       period,
		CurrentDay:   day,
		Habits:       b.Habits,
		WeeklyHabits: b.WeeklyHabits,
		TotalXP:      b.Gamification.TotalXP,
	})

	_, _ = fmt.Fprintf(w, "%s\n", Header(fmt.Sprintf("Superoutine %s, day %d", d.Period, d.CurrentDay)))
	_, _ = fmt.Fprintf(w, "%s %s %3d%%  (%d/%d)\n", Silent("Today:  "), bar(d.Today.Rate, 20), d.Today.Rate, d.Today.Completed, d.Today.Possible)
	_, _ = fmt.Fprintf(w, "%s %s %3d%%  (%d/%d)\n", Silent("Month:  "), bar(d.Monthly.Rate, 20), d.Monthly.Rate, d.Monthly.Completed, d.Monthly.Possible)
	_, _ = fmt.Fprintf(w, "%s %s (%+d)\n", Silent("Momentum:"), Primary(d.Momentum.Label), d.Momentum.Delta)
	if d.Comeback.Defined {
		_, _ = fmt.Fprintf(w, "%s %d%% %s\n", Silent("Comeback:"), d.Comeback.Score, d.Comeback.Message)
	}
	_, _ = fmt.Fprintf(w, "%s %d  %s %d  %s %d\n",
		Silent("Completions:"), d.Stats.TotalCompletions,
		Silent("Best streak:"), d.Stats.MaxStreak,
		Silent("Perfect days:"), d.Stats.PerfectDays)

	if len(d.Habits) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", Header("Habits"))
		for _, h := range d.Habits {
			_, _ = fmt.Fprintf(w, "  %-24s %s %3d%%  streak %d (best %d)\n",
				truncate(h.Name, 24), bar(h.Percentage, 10), h.Percentage, h.CurrentStreak, h.LongestStreak)
		}
	}

	var earned []string
	for _, badge := range d.Badges {
		if badge.Earned {
			earned = append(earned, badge.Name)
		}
	}
	if len(earned) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", Silent("Badges:"), Success(strings.Join(earned, ", ")))
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
