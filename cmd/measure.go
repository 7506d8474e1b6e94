package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/measure"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var (
	measureNote   string
	measureFormat string
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Record and review health measurements",
}

var measureAddCmd = &cobra.Command{
	Use:   "add <kind> <value>",
	Short: "Record a measurement (blood-pressure 120/80, glucose 95, weight 72.5)",
	Args:  cobra.ExactArgs(2),
	RunE:  runMeasureAdd,
}

var measureListCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "Show measurements with latest value, average and trend",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMeasureList,
}

func init() {
	measureAddCmd.Flags().StringVar(&measureNote, "note", "", "Optional note")
	measureListCmd.Flags().StringVar(&measureFormat, "format", "md", "Output format: md, json, yaml")
	measureCmd.AddCommand(measureAddCmd)
	measureCmd.AddCommand(measureListCmd)
}

func runMeasureAdd(cmd *cobra.Command, args []string) error {
	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		m, err := t.AddMeasurement(args[0], args[1], measureNote)
		if err != nil {
			return err
		}
		p.Printf("Recorded %s: %s\n", m.Kind, m.Display())
		return nil
	})
}

func runMeasureList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(measureFormat, "md", "json", "yaml"); err != nil {
		return err
	}
	var kinds []model.MeasurementKind
	if len(args) == 1 {
		k, err := model.ParseMeasurementKind(args[0])
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
	}

	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		sums := t.MeasurementSummaries(kinds...)
		if done, err := writeStructured(cmd.OutOrStdout(), measureFormat, sums); done {
			return err
		}
		for i, s := range sums {
			if i > 0 {
				p.Println()
			}
			printSummary(p, s)
		}
		return nil
	})
}

func printSummary(p *render.Printer, s measure.Summary) {
	p.Heading(fmt.Sprintf("%s (%s)", s.Kind, s.Kind.Unit()))
	if s.Latest == nil {
		p.Println(p.T(render.KeyNoMeasurements))
		return
	}
	p.Printf("%-10s%s  %s\n", p.T(render.KeyLatest), s.Latest.Display(), p.Muted(s.Latest.Timestamp.Format("2006-01-02 15:04")))
	p.Printf("%-10s%s\n", p.T(render.KeyAverage), s.Average)
	p.Printf("%-10s%s\n", p.T(render.KeyTrend), trendArrow(s.Trend))

	labels := make([]string, 0, len(s.Chart))
	for _, pt := range s.Chart {
		if s.Kind == model.BloodPressure {
			labels = append(labels, fmt.Sprintf("%s %d/%d", pt.Label, pt.Systolic, pt.Diastolic))
		} else {
			labels = append(labels, fmt.Sprintf("%s %.1f", pt.Label, pt.Value))
		}
	}
	p.Println(p.Muted(strings.Join(labels, " · ")))

	for _, m := range s.Entries {
		note := ""
		if m.Note != nil {
			note = "  " + *m.Note
		}
		p.Printf("  %s  %s%s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Display(), note)
	}
}

func trendArrow(t measure.Trend) string {
	switch t {
	case measure.TrendUp:
		return "↑ up"
	case measure.TrendDown:
		return "↓ down"
	}
	return "→ stable"
}
