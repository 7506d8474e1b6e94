package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, configTemplate, string(data))

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, DefaultBackend, cfg.Storage.Backend)
	assert.Equal(t, 30*time.Minute, cfg.CriticalAfter())
	assert.Equal(t, 60*time.Minute, cfg.DueSoonWithin())
	assert.Equal(t, DefaultSchedule, cfg.Alerts.Schedule)
	assert.Equal(t, DefaultWindowDays, cfg.Stats.WindowDays)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alerts:\n  threshold_minutes: 45\nstorage:\n  backend: sqlite\n"), 0o600))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.Alerts.ThresholdMinutes)
	assert.Equal(t, DefaultDueSoonMinutes, cfg.Alerts.DueSoonMinutes)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TDT_STORAGE_BACKEND", "badger")
	t.Setenv("TDT_STATS_WINDOW_DAYS", "30")

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.Equal(t, 30, cfg.Stats.WindowDays)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"backend", "storage:\n  backend: postgres\n"},
		{"threshold", "alerts:\n  threshold_minutes: 0\n"},
		{"timezone", "timezone: Mars/Olympus\n"},
		{"syntax", "alerts: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path, dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrConfigInvalid)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
