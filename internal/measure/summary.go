// Package measure summarizes the measurement log per kind.
package measure

import (
	"fmt"
	"math"
	"sort"

	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

// ChartSize is the number of entries in a chart series.
const ChartSize = 7

// Trend compares the latest entry with the one before it.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Point is one chart sample. Blood pressure fills Systolic and Diastolic.
type Point struct {
	Label     string  `json:"label" yaml:"label"`
	Systolic  int     `json:"systolic,omitempty" yaml:"systolic,omitempty"`
	Diastolic int     `json:"diastolic,omitempty" yaml:"diastolic,omitempty"`
	Value     float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// Summary describes all entries of one kind.
type Summary struct {
	Kind    model.MeasurementKind `json:"kind" yaml:"kind"`
	Entries []model.Measurement   `json:"entries" yaml:"entries"`
	Latest  *model.Measurement    `json:"latest,omitempty" yaml:"latest,omitempty"`
	Average string                `json:"average" yaml:"average"`
	Chart   []Point               `json:"chart" yaml:"chart"`
	Trend   Trend                 `json:"trend" yaml:"trend"`
}

// Summarize filters log to kind. Entries are newest first; the chart holds
// the last ChartSize entries oldest first.
func Summarize(log []model.Measurement, kind model.MeasurementKind) Summary {
	var entries []model.Measurement
	for _, m := range log {
		if m.Kind == kind {
			entries = append(entries, m)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	s := Summary{Kind: kind, Entries: entries, Trend: TrendStable}
	if len(entries) == 0 {
		return s
	}
	latest := entries[0]
	s.Latest = &latest
	s.Average = average(entries, kind)
	if len(entries) > 1 {
		s.Trend = trend(primary(entries[0]), primary(entries[1]))
	}

	n := min(len(entries), ChartSize)
	s.Chart = make([]Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := entries[i]
		ts := m.Timestamp
		s.Chart = append(s.Chart, Point{
			Label:     fmt.Sprintf("%d/%d", ts.Day(), int(ts.Month())),
			Systolic:  m.Systolic,
			Diastolic: m.Diastolic,
			Value:     m.Value,
		})
	}
	return s
}

func average(entries []model.Measurement, kind model.MeasurementKind) string {
	n := float64(len(entries))
	if kind == model.BloodPressure {
		var sys, dia float64
		for _, m := range entries {
			sys += float64(m.Systolic)
			dia += float64(m.Diastolic)
		}
		return fmt.Sprintf("%d/%d", int(math.Round(sys/n)), int(math.Round(dia/n)))
	}
	var sum float64
	for _, m := range entries {
		sum += m.Value
	}
	return fmt.Sprintf("%.1f", sum/n)
}

// primary is the value a trend is based on; systolic for blood pressure.
func primary(m model.Measurement) float64 {
	if m.Kind == model.BloodPressure {
		return float64(m.Systolic)
	}
	return m.Value
}

func trend(latest, previous float64) Trend {
	switch {
	case latest > previous:
		return TrendUp
	case latest < previous:
		return TrendDown
	default:
		return TrendStable
	}
}
