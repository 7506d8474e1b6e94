package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
)

// Config is the root configuration for tdt, stored in ~/.tdt/config.yaml.
type Config struct {
	DataDir  string        `mapstructure:"-"`
	Timezone string        `mapstructure:"timezone"`
	Storage  StorageConfig `mapstructure:"storage"`
	Alerts   AlertsConfig  `mapstructure:"alerts"`
	Stats    StatsConfig   `mapstructure:"stats"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Log      LogConfig     `mapstructure:"log"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is one of "file", "badger" or "sqlite".
	Backend string `mapstructure:"backend"`
}

// AlertsConfig holds the overdue thresholds and the watch cadence.
type AlertsConfig struct {
	ThresholdMinutes int    `mapstructure:"threshold_minutes"`
	DueSoonMinutes   int    `mapstructure:"due_soon_minutes"`
	Schedule         string `mapstructure:"schedule"`
}

// StatsConfig holds statistics defaults.
type StatsConfig struct {
	WindowDays int `mapstructure:"window_days"`
}

// MetricsConfig configures the Prometheus textfile written by watch.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LogConfig selects log level and encoder ("console" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultBackend          = "file"
	DefaultThresholdMinutes = 30
	DefaultDueSoonMinutes   = 60
	DefaultSchedule         = "@every 1m"
	DefaultWindowDays       = 7
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "console"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# tdt configuration – ~/.tdt/config.yaml
#
# All settings are optional; the built-in defaults shown below work out of
# the box. Every key can be overridden with an environment variable, e.g.
# TDT_STORAGE_BACKEND=sqlite or TDT_ALERTS_THRESHOLD_MINUTES=45.

# IANA timezone used to decide where a calendar day starts, e.g.
# "Europe/Berlin". Leave empty to use the system local time.
timezone: ""

storage:
  # Where snapshots are kept:
  #   file   – one JSON file per bucket in the data directory (default)
  #   badger – embedded BadgerDB key-value store in <data>/badger
  #   sqlite – SQLite database <data>/tdt.db
  backend: file

alerts:
  # A dose this many minutes late triggers a critical alert.
  threshold_minutes: 30
  # A dose due within this many minutes is shown as "due soon".
  due_soon_minutes: 60
  # How often 'tdt watch' re-evaluates (cron syntax or @every).
  schedule: "@every 1m"

stats:
  # Default window for 'tdt stats' in days.
  window_days: 7

metrics:
  # If set, 'tdt watch' writes Prometheus metrics to this file after every
  # evaluation (for the node_exporter textfile collector).
  textfile: ""

log:
  # debug, info, warn or error
  level: warn
  # console or json
  format: console
`

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "")
	v.SetDefault("storage.backend", DefaultBackend)
	v.SetDefault("alerts.threshold_minutes", DefaultThresholdMinutes)
	v.SetDefault("alerts.due_soon_minutes", DefaultDueSoonMinutes)
	v.SetDefault("alerts.schedule", DefaultSchedule)
	v.SetDefault("stats.window_days", DefaultWindowDays)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

// Load reads the config file (default <dataDir>/config.yaml), creating it
// with annotated defaults on first run. TDT_* environment variables
// override file values.
func Load(configPath, dataDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = filepath.Join(dataDir, "config.yaml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(configPath); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", configPath, writeErr)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, apperr.Wrap(
				fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", configPath, err),
				apperr.ErrConfigInvalid.Code, "read config")
		}
	}

	v.SetEnvPrefix("TDT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrConfigInvalid.Code, "decode config")
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "badger", "sqlite":
	default:
		return apperr.Invalid(apperr.ErrConfigInvalid, "storage.backend must be file, badger or sqlite, got %q", c.Storage.Backend)
	}
	if c.Alerts.ThresholdMinutes <= 0 {
		return apperr.Invalid(apperr.ErrConfigInvalid, "alerts.threshold_minutes must be positive")
	}
	if c.Alerts.DueSoonMinutes <= 0 {
		return apperr.Invalid(apperr.ErrConfigInvalid, "alerts.due_soon_minutes must be positive")
	}
	if c.Stats.WindowDays <= 0 {
		return apperr.Invalid(apperr.ErrConfigInvalid, "stats.window_days must be positive")
	}
	if _, err := c.Location(); err != nil {
		return apperr.Invalid(apperr.ErrConfigInvalid, "unknown timezone %q", c.Timezone)
	}
	return nil
}

// Location returns the configured timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// CriticalAfter is the alert threshold as a duration.
func (c *Config) CriticalAfter() time.Duration {
	return time.Duration(c.Alerts.ThresholdMinutes) * time.Minute
}

// DueSoonWithin is the due-soon window as a duration.
func (c *Config) DueSoonWithin() time.Duration {
	return time.Duration(c.Alerts.DueSoonMinutes) * time.Minute
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
