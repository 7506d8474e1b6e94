package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	"github.com/Tiliavir/trivial-dose-tracker/internal/config"
	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/logging"
	"github.com/Tiliavir/trivial-dose-tracker/internal/render"
	"github.com/Tiliavir/trivial-dose-tracker/internal/storage"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

var (
	flagDataDir  string
	flagConfig   string
	flagLogLevel string
)

// Loaded by the root PersistentPreRunE for every command.
var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tdt",
	Short: "Trivial Dose Tracker – a minimal CLI medication tracker",
	Long: `tdt is a single-binary command-line medication adherence tracker.
It records which scheduled doses were taken, warns about overdue doses and
reports adherence statistics. All data is stored locally in ~/.tdt/.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(apperr.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.tdt)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(measureCmd)
	rootCmd.AddCommand(familyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the configuration and the logger.
func setup(cmd *cobra.Command, args []string) error {
	base := flagDataDir
	if base == "" {
		var err error
		base, err = storage.BaseDir()
		if err != nil {
			return apperr.Wrap(err, apperr.ErrStorageOpen.Code, "locate data directory")
		}
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return apperr.Wrap(err, apperr.ErrStorageOpen.Code, "create data directory")
	}

	c, err := config.Load(flagConfig, base)
	if err != nil {
		return err
	}
	level := c.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	l, err := logging.New(level, c.Log.Format)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrConfigInvalid.Code, "configure logging")
	}

	cfg, logger = c, l
	logger.Debug("Configuration loaded",
		zap.String("data_dir", cfg.DataDir),
		zap.String("backend", cfg.Storage.Backend),
	)
	return nil
}

// openTracker opens the configured storage backend. The returned function
// releases it.
func openTracker() (*tracker.Tracker, func(), error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.DataDir)
	if err != nil {
		return nil, nil, apperr.Wrap(err, apperr.ErrStorageOpen.Code, "open "+cfg.Storage.Backend+" storage")
	}
	repo := storage.NewRepository(backend, logger)
	loc, err := cfg.Location()
	if err != nil {
		repo.Close()
		return nil, nil, apperr.Wrap(err, apperr.ErrConfigInvalid.Code, "load timezone")
	}

	engine := adherence.New(cfg.CriticalAfter(), cfg.DueSoonWithin())
	t := tracker.New(repo, engine, logger, tracker.WithLocation(loc))
	closeFn := func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}
	return t, closeFn, nil
}

// withTracker runs fn with an open tracker and a printer for the command's
// output using the stored preferences.
func withTracker(cmd *cobra.Command, fn func(t *tracker.Tracker, p *render.Printer) error) error {
	t, closeFn, err := openTracker()
	if err != nil {
		return err
	}
	defer closeFn()
	store := t.Settings()
	return fn(t, render.New(cmd.OutOrStdout(), store.Get()).Follow(store.Subscribe()))
}
