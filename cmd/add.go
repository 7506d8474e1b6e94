package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var (
	addDosage    string
	addType      string
	addTimes     []string
	addFrequency string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a medicine with its daily dose times",
	Example: `  tdt add Aspirin --dosage 100mg --time 08:00 --time 20:00
  tdt add "Vitamin D" --dosage "1000 IU" --type vitamin --time 9:00`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDosage, "dosage", "", "Dosage, e.g. 100mg (required)")
	addCmd.Flags().StringVar(&addType, "type", model.DefaultType, "Type: "+strings.Join(model.MedicineTypes, ", "))
	addCmd.Flags().StringSliceVarP(&addTimes, "time", "t", nil, "Dose time HH:MM (repeatable or comma-separated)")
	addCmd.Flags().StringVar(&addFrequency, "frequency", model.DefaultFrequency, "Frequency: "+strings.Join(model.Frequencies, ", "))
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		med, err := t.AddMedicine(model.MedicineInput{
			Name:      strings.Join(args, " "),
			Dosage:    addDosage,
			Type:      addType,
			Times:     addTimes,
			Frequency: addFrequency,
		})
		if err != nil {
			return err
		}
		p.Printf("Added %s %s (%s, %s) at %s %s\n",
			med.Name, med.Dosage, med.Type, med.Frequency,
			strings.Join(med.Times, ", "), p.Muted("["+med.ShortID()+"]"))
		return nil
	})
}
