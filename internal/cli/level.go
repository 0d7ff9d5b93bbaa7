package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	game "superoutine/internal/gamification"
)

func newLevelCmd() *cobra.Command {
	var (
		xp   int
		upto int
	)
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Show the level for an XP total, or the level schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("xp") {
				return runLevel(cmd.OutOrStdout(), xp)
			}
			return runLevelTable(cmd.OutOrStdout(), upto)
		},
	}
	cmd.Flags().IntVar(&xp, "xp", 0, "total XP to evaluate")
	cmd.Flags().IntVar(&upto, "upto", 10, "print the schedule up to this level")
	return cmd
}

func runLevel(w io.Writer, xp int) error {
	l := game.LevelFor(xp)
	_, _ = fmt.Fprintf(w, "%s %s\n", Primary(fmt.Sprintf("Level %d", l.Level)), l.Title)
	_, _ = fmt.Fprintf(w, "%s %s %d/%d XP\n", Silent("Progress:"), bar(int(l.Progress*100), 20), l.CurrentLevelXP, l.NextLevelXP)
	return nil
}

func runLevelTable(w io.Writer, upto int) error {
	if upto < 1 {
		return fmt.Errorf("--upto must be at least 1")
	}
	_, _ = fmt.Fprintf(w, "%s\n", Header(fmt.Sprintf("%-6s %-8s %s", "Level", "XP", "Title")))
	for level := 1; level <= upto; level++ {
		_, _ = fmt.Fprintf(w, "%-6d %-8d %s\n", level, game.XPForLevel(level), game.Title(level))
	}
	return nil
}
