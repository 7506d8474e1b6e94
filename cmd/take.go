package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var takeCmd = &cobra.Command{
	Use:   "take <medicine> [HH:MM]",
	Short: "Mark today's dose of a medicine as taken",
	Long: `Mark today's dose of a medicine as taken. The medicine is matched by
name (case-insensitive) or ID prefix. Without a time, the earliest overdue
dose is taken, otherwise the next dose due within the hour.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTake,
}

func runTake(cmd *cobra.Command, args []string) error {
	clock := ""
	if len(args) == 2 {
		clock = args[1]
	}
	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		res, err := t.Take(args[0], clock)
		if err != nil {
			return err
		}
		if res.AlreadyTaken {
			p.Printf("%s %s was already taken today.\n", res.Medicine.Name, res.Time)
			return nil
		}
		p.Printf("✓ %s %s %s. %s: %d %s\n", res.Medicine.Name, res.Time, p.T(render.KeyTaken),
			p.T(render.KeyStreak), res.Streak, p.T(render.KeyDays))
		return nil
	})
}
