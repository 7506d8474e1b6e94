package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show doses that are critically overdue",
	Args:  cobra.NoArgs,
	RunE:  runAlerts,
}

func runAlerts(cmd *cobra.Command, args []string) error {
	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		doses, enabled := t.Alerts()
		if !enabled {
			p.Println("Critical notifications are disabled (enable with 'tdt settings notifications on').")
			return nil
		}
		printAlerts(p, doses)
		return nil
	})
}

// printAlerts presents critical overdue doses, or a reassurance when there
// are none.
func printAlerts(p *render.Printer, doses []adherence.OverdueDose) {
	if len(doses) == 0 {
		p.Println(p.T(render.KeyAllOnTrack))
		return
	}
	p.Println(p.Alert("⚠ " + p.T(render.KeyCriticalAlert)))
	for _, d := range doses {
		p.Printf("  %s  %-20s %-12s %s\n", d.Time, d.Medicine.Name, d.Medicine.Dosage, p.Alert(p.Lateness(d.MinutesLate)))
	}
}
