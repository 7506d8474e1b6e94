// Package metrics exposes the state of the latest evaluation as Prometheus
// gauges, written to a node_exporter textfile by the watch loop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
)

const namespace = "tdt"

// Evaluation is the outcome of one evaluation pass.
type Evaluation struct {
	At              time.Time
	Doses           []adherence.DoseInstance
	CriticalOverdue int
	DayCompletion   int
	Adherence       int
	Streak          int
}

// Collector owns a private registry with the tracker metrics.
type Collector struct {
	registry *prometheus.Registry

	doses           *prometheus.GaugeVec
	criticalOverdue prometheus.Gauge
	dayCompletion   prometheus.Gauge
	adherence       prometheus.Gauge
	streak          prometheus.Gauge
	lastEvaluation  prometheus.Gauge
	evaluations     prometheus.Counter
}

// NewCollector registers all metrics on a fresh registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		doses: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "doses",
			Help:      "Dose-slots of the current day by status.",
		}, []string{"status"}),
		criticalOverdue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "critical_overdue_doses",
			Help:      "Untaken doses late by at least the alert threshold.",
		}),
		dayCompletion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "day_completion_percent",
			Help:      "Share of today's dose-slots marked taken.",
		}),
		adherence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "adherence_percent",
			Help:      "Mean day completion over the statistics window.",
		}),
		streak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_days",
			Help:      "Consecutive fully completed days.",
		}),
		lastEvaluation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_evaluation_timestamp_seconds",
			Help:      "Unix time of the latest evaluation.",
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Number of evaluation passes.",
		}),
	}
	c.registry.MustRegister(c.doses, c.criticalOverdue, c.dayCompletion,
		c.adherence, c.streak, c.lastEvaluation, c.evaluations)
	return c
}

// Observe records ev.
func (c *Collector) Observe(ev Evaluation) {
	counts := map[adherence.Status]int{
		adherence.Taken:    0,
		adherence.Overdue:  0,
		adherence.DueSoon:  0,
		adherence.Upcoming: 0,
	}
	for _, d := range ev.Doses {
		counts[d.Status]++
	}
	for status, n := range counts {
		c.doses.WithLabelValues(string(status)).Set(float64(n))
	}
	c.criticalOverdue.Set(float64(ev.CriticalOverdue))
	c.dayCompletion.Set(float64(ev.DayCompletion))
	c.adherence.Set(float64(ev.Adherence))
	c.streak.Set(float64(ev.Streak))
	c.lastEvaluation.Set(float64(ev.At.Unix()))
	c.evaluations.Inc()
}

// WriteTextfile atomically writes the registry in the text exposition
// format to path.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
