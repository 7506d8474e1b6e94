package cmd

import (
	"github.com/spf13/cobra"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var (
	statsPeriod string
	statsDays   int
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"report"},
	Short:   "Show adherence statistics",
	Args:    cobra.NoArgs,
	RunE:    runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPeriod, "period", "", "Window: week, month or year (default stats.window_days)")
	statsCmd.Flags().IntVar(&statsDays, "days", 0, "Window in days (overrides --period)")
	statsCmd.Flags().StringVar(&statsFormat, "format", "md", "Output format: md, json, yaml")
}

// maxSeriesRows limits the per-day table in text output.
const maxSeriesRows = 31

func statsWindow() (int, error) {
	if statsDays != 0 {
		return statsDays, nil
	}
	switch statsPeriod {
	case "":
		return cfg.Stats.WindowDays, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	case "year":
		return 365, nil
	}
	return 0, apperr.Invalid(apperr.ErrInvalidInput, "unknown period %q (want week, month or year)", statsPeriod)
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := checkFormat(statsFormat, "md", "json", "yaml"); err != nil {
		return err
	}
	window, err := statsWindow()
	if err != nil {
		return err
	}

	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		view, err := t.Stats(window)
		if err != nil {
			return err
		}
		if done, err := writeStructured(cmd.OutOrStdout(), statsFormat, view); done {
			return err
		}

		p.Heading(p.T(render.KeyAdherence))
		if len(view.Series) <= maxSeriesRows {
			for _, d := range view.Series {
				p.Printf("%-6s %s %3d%%\n", d.Label, render.Bar(d.Percentage, 20), d.Percentage)
			}
			p.Println("--------------------------------")
		}
		p.Printf("%-14s%d%% (%d %s)\n", p.T(render.KeyOverall), view.Overall, view.WindowDays, p.T(render.KeyDays))
		p.Printf("%-14s%d%%\n", p.T(render.KeyToday), view.TodayPercent)
		p.Printf("%-14s%d %s\n", p.T(render.KeyStreak), view.Streak, p.T(render.KeyDays))
		p.Printf("%-14s%d\n", p.T(render.KeyMedicines), view.Medicines)
		p.Printf("%-14s%d\n", p.T(render.KeyDosesPerDay), view.DosesPerDay)

		if len(view.Types) > 0 {
			p.Println()
			p.Heading(p.T(render.KeyByType))
			for _, tc := range view.Types {
				p.Printf("%-14s%d\n", tc.Type, tc.Count)
			}
		}
		return nil
	})
}
