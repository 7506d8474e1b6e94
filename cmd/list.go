package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the medicine catalog",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		printList(p, t.Medicines())
		return nil
	})
}

// printList prints one line per medicine in catalog order.
func printList(p *render.Printer, meds []model.Medicine) {
	if len(meds) == 0 {
		p.Println(p.T(render.KeyNoMedicines))
		return
	}

	p.Heading(p.T(render.KeyMedicines))
	for _, m := range meds {
		p.Printf("%s  %-20s %-12s %-12s %-10s %s\n",
			p.Muted(m.ShortID()), m.Name, m.Dosage, m.Type, m.Frequency, strings.Join(m.Times, ", "))
	}
}
