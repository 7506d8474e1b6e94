// Package watch re-evaluates the tracker periodically and whenever another
// tdt process changes the stored data.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Evaluator runs one evaluation pass. Errors are logged and the loop goes on.
type Evaluator func(ctx context.Context) error

// Config holds watch runner configuration
type Config struct {
	// Schedule is a cron spec, e.g. "@every 1m" or "*/5 * * * *".
	Schedule string
	// Paths are files whose changes trigger an evaluation.
	Paths []string
	// Debounce delays change-triggered evaluations so bursts of writes
	// collapse into one.
	Debounce time.Duration
}

const (
	DefaultSchedule = "@every 1m"
	DefaultDebounce = 200 * time.Millisecond
)

// Runner serializes evaluations. Ticks and file changes only request an
// evaluation; at most one request is pending at a time.
type Runner struct {
	config  Config
	eval    Evaluator
	logger  *zap.Logger
	trigger chan string
}

// NewRunner creates a new watch runner
func NewRunner(config Config, eval Evaluator, logger *zap.Logger) *Runner {
	if config.Schedule == "" {
		config.Schedule = DefaultSchedule
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		config:  config,
		eval:    eval,
		logger:  logger,
		trigger: make(chan string, 1),
	}
}

// Trigger requests an evaluation. It never blocks; a request made while
// another is pending is dropped.
func (r *Runner) Trigger(reason string) {
	select {
	case r.trigger <- reason:
	default:
		r.logger.Debug("Evaluation already pending", zap.String("reason", reason))
	}
}

// Run evaluates once immediately, then on every tick and data change until
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{r.logger.Sugar()})))
	if _, err := c.AddFunc(r.config.Schedule, func() { r.Trigger("tick") }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", r.config.Schedule, err)
	}

	if len(r.config.Paths) > 0 {
		watcher, err := r.watchPaths()
		if err != nil {
			return err
		}
		defer watcher.Close()
		go r.forwardChanges(ctx, watcher)
	}

	c.Start()
	defer func() { <-c.Stop().Done() }()

	r.logger.Info("Watch started", zap.String("schedule", r.config.Schedule), zap.Strings("paths", r.config.Paths))
	r.Trigger("start")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Watch stopped")
			return nil
		case reason := <-r.trigger:
			r.logger.Debug("Evaluating", zap.String("reason", reason))
			if err := r.eval(ctx); err != nil {
				r.logger.Error("Evaluation failed", zap.String("reason", reason), zap.Error(err))
			}
		}
	}
}

func (r *Runner) watchPaths() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	seen := map[string]bool{}
	for _, p := range r.config.Paths {
		dir := filepath.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return watcher, nil
}

// forwardChanges turns relevant file events into debounced triggers.
func (r *Runner) forwardChanges(ctx context.Context, watcher *fsnotify.Watcher) {
	wanted := make(map[string]bool, len(r.config.Paths))
	for _, p := range r.config.Paths {
		wanted[filepath.Clean(p)] = true
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !wanted[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			r.logger.Debug("Data changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.AfterFunc(r.config.Debounce, func() { r.Trigger("change") })
			} else {
				timer.Reset(r.config.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
