package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"status"},
	Short:   "Show today's doses, completion and streak",
	Args:    cobra.NoArgs,
	RunE:    runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		view := t.Today()
		p.Heading(fmt.Sprintf("%s %s (%s)", p.T(render.KeyToday), view.Day, t.ActiveMember().Name))

		if len(view.Doses) == 0 {
			p.Println(p.T(render.KeyNoMedicines))
			return nil
		}

		for _, d := range view.Doses {
			line := fmt.Sprintf("%s  %s  %s %s", d.Time, p.Status(d.Status), d.Medicine.Name, p.Muted(d.Medicine.Dosage))
			if d.Status == adherence.Overdue {
				late := p.Lateness(d.MinutesLate)
				if d.Critical {
					late = p.Alert(late)
				}
				line += "  (" + late + ")"
			}
			p.Println(line)
		}

		p.Println()
		p.Printf("%s %d/%d  %s %d%%\n", p.T(render.KeyCompletion), view.Completed, view.Total,
			render.Bar(view.Completion, 20), view.Completion)
		p.Printf("%s: %d %s\n", p.T(render.KeyStreak), view.Streak, p.T(render.KeyDays))
		return nil
	})
}
