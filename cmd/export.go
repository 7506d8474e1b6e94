package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var (
	exportFormat string
	exportDays   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dose history to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, yaml, md")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Number of days up to today (default stats.window_days)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := checkFormat(exportFormat, "csv", "json", "yaml", "md"); err != nil {
		return err
	}
	days := exportDays
	if days == 0 {
		days = cfg.Stats.WindowDays
	}

	return withTracker(cmd, func(t *tracker.Tracker, p *render.Printer) error {
		records, err := t.History(days)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if done, err := writeStructured(out, exportFormat, records); done {
			return err
		}
		if exportFormat == "md" {
			printMarkdown(out, records)
			return nil
		}
		printCSV(out, records)
		return nil
	})
}

func printCSV(w io.Writer, records []tracker.DoseRecord) {
	fmt.Fprintln(w, "date,time,medicine,dosage,type,status")
	for _, r := range records {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s\n",
			r.Day,
			r.Time,
			csvEscape(r.Medicine),
			csvEscape(r.Dosage),
			csvEscape(r.Type),
			r.Status,
		)
	}
}

func printMarkdown(w io.Writer, records []tracker.DoseRecord) {
	fmt.Fprintln(w, "| Date | Time | Medicine | Dosage | Status |")
	fmt.Fprintln(w, "|------|------|----------|--------|--------|")
	for _, r := range records {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			r.Day, r.Time, mdEscape(r.Medicine), mdEscape(r.Dosage), r.Status)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
