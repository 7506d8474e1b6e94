package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	"github.com/Tiliavir/trivial-dose-tracker/internal/metrics"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/storage"
	"github.com/Tiliavir/trivial-dose-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-dose-tracker/internal/watch"
)

var (
	watchTextfile string
	watchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate doses periodically and alert on critical overdue doses",
	Long: `watch keeps running and re-evaluates the schedule on the configured
cron schedule (alerts.schedule, default once a minute) and whenever another
tdt command changes the data. New critical alerts are printed as they
appear. With metrics.textfile set, Prometheus metrics are written after
every evaluation.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchTextfile, "textfile", "", "Write Prometheus metrics to this file (overrides metrics.textfile)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Evaluate once and exit")
}

func runWatch(cmd *cobra.Command, args []string) error {
	textfile := cfg.Metrics.Textfile
	if watchTextfile != "" {
		textfile = watchTextfile
	}
	ev := &evaluator{
		collector: metrics.NewCollector(),
		textfile:  textfile,
		alerted:   map[string]bool{},
		out:       cmd,
	}
	if watchOnce {
		return ev.evaluate(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := watch.NewRunner(watch.Config{
		Schedule: cfg.Alerts.Schedule,
		Paths:    changePaths(cfg.Storage.Backend, cfg.DataDir),
	}, ev.evaluate, logger)
	return runner.Run(ctx)
}

// changePaths lists the files whose modification means another process
// changed the data. Badger keeps its directory locked, so changes there
// are picked up on the next tick only.
func changePaths(backend, base string) []string {
	switch backend {
	case storage.BackendFile, "":
		paths := make([]string, 0, len(storage.Buckets))
		for _, b := range storage.Buckets {
			paths = append(paths, filepath.Join(base, string(b)+".json"))
		}
		return paths
	case storage.BackendSQLite:
		return []string{filepath.Join(base, "tdt.db-wal")}
	}
	return nil
}

type evaluator struct {
	collector *metrics.Collector
	textfile  string
	alerted   map[string]bool
	out       *cobra.Command
}

// evaluate opens storage for the duration of one pass so other tdt
// commands can write in between.
func (e *evaluator) evaluate(ctx context.Context) error {
	t, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()

	snap, err := t.Snapshot(cfg.Stats.WindowDays)
	if err != nil {
		return err
	}

	e.collector.Observe(metrics.Evaluation{
		At:              snap.At,
		Doses:           snap.Doses,
		CriticalOverdue: len(snap.Critical),
		DayCompletion:   snap.Completion,
		Adherence:       snap.Adherence,
		Streak:          snap.Streak,
	})
	if e.textfile != "" {
		if err := e.collector.WriteTextfile(e.textfile); err != nil {
			logger.Warn("Failed to write metrics textfile", zap.String("path", e.textfile), zap.Error(err))
		}
	}

	fresh := e.newAlerts(snap.Critical, snap.Day, snap.Preferences)
	if len(fresh) > 0 {
		p := render.New(e.out.OutOrStdout(), snap.Preferences)
		p.Printf("%s ", p.Muted(snap.At.Format(time.TimeOnly)))
		printAlerts(p, fresh)
	}

	logger.Debug("Evaluation done",
		zap.Int("doses", len(snap.Doses)),
		zap.Int("critical", len(snap.Critical)),
		zap.Int("new_alerts", len(fresh)),
	)
	return nil
}

// newAlerts returns the critical doses not presented before. Doses that
// are no longer critical (taken, or a new day) are forgotten. Nothing is
// recorded while notifications are off, so re-enabling them presents
// every dose that is still critical.
func (e *evaluator) newAlerts(critical []adherence.OverdueDose, day timecalc.DayID, prefs model.Preferences) []adherence.OverdueDose {
	if !prefs.CriticalNotifications {
		e.alerted = map[string]bool{}
		return nil
	}
	current := make(map[string]bool, len(critical))
	var fresh []adherence.OverdueDose
	for _, d := range critical {
		key := d.Medicine.ID + "/" + model.DoseKey(day, d.Time)
		current[key] = true
		if !e.alerted[key] {
			fresh = append(fresh, d)
		}
	}
	e.alerted = current
	return fresh
}
