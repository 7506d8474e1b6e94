package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/storage"
	"github.com/Tiliavir/trivial-dose-tracker/internal/tracker"
)

// resetFlags restores every flag to its default between executions of the
// shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAddListTake(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "Aspirin", "--dosage", "100mg", "--time", "00:00", "--time", "23:59")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Aspirin 100mg (medicine, daily) at 00:00, 23:59")

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Aspirin")

	out, err = run(t, dir, "take", "aspirin", "00:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Aspirin 00:00 taken")

	out, err = run(t, dir, "take", "aspirin", "00:00")
	require.NoError(t, err)
	assert.Contains(t, out, "already taken")

	out, err = run(t, dir, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "1/2")
}

func TestAddRejectsInvalidTime(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "Aspirin", "--dosage", "100mg", "--time", "24:00")
	require.Error(t, err)
	assert.Equal(t, 1, apperr.ExitCode(err))

	backend, err := storage.NewFileBackend(dir)
	require.NoError(t, err)
	repo := storage.NewRepository(backend, nil)
	defer repo.Close()
	assert.Empty(t, repo.Medicines())
}

func TestTakeUnknownMedicine(t *testing.T) {
	_, err := run(t, t.TempDir(), "take", "Nothing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStatsJSON(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "Aspirin", "--dosage", "100mg", "--time", "00:00")
	require.NoError(t, err)

	out, err := run(t, dir, "stats", "--days", "3", "--format", "json")
	require.NoError(t, err)

	var view tracker.StatsView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 3, view.WindowDays)
	assert.Len(t, view.Series, 3)
	assert.Equal(t, 1, view.Medicines)

	_, err = run(t, dir, "stats", "--period", "decade")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "Aspirin", "--dosage", "100mg", "--time", "00:00")
	require.NoError(t, err)
	_, err = run(t, dir, "take", "Aspirin", "00:00")
	require.NoError(t, err)

	out, err := run(t, dir, "export", "--days", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,time,medicine,dosage,type,status", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",missed"))
	assert.True(t, strings.HasSuffix(lines[2], ",taken"))

	out, err = run(t, dir, "export", "--days", "1", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "medicine: Aspirin")
}

func TestMeasureAndSettings(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "measure", "add", "bp", "120/80")
	require.NoError(t, err)
	_, err = run(t, dir, "measure", "add", "bp", "120-80")
	assert.ErrorIs(t, err, apperr.ErrInvalidMeasurement)

	out, err := run(t, dir, "measure", "list", "blood-pressure")
	require.NoError(t, err)
	assert.Contains(t, out, "120/80 mmHg")

	out, err = run(t, dir, "settings", "notifications", "off")
	require.NoError(t, err)
	assert.Contains(t, out, "notifications: off")

	out, err = run(t, dir, "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")

	out, err = run(t, dir, "settings", "theme")
	require.NoError(t, err)
	assert.Contains(t, out, "theme:         dark")

	out, err = run(t, dir, "settings", "language", "ar")
	require.NoError(t, err)
	assert.Contains(t, out, "الإعدادات")
	assert.Contains(t, out, "language:      ar")
}

func TestFamilyCommands(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "Aspirin", "--dosage", "100mg", "--time", "00:00")
	require.NoError(t, err)
	_, err = run(t, dir, "measure", "add", "weight", "70")
	require.NoError(t, err)
	_, err = run(t, dir, "family", "add", "Sara", "--relation", "daughter")
	require.NoError(t, err)
	out, err := run(t, dir, "family", "switch", "sara")
	require.NoError(t, err)
	assert.Contains(t, out, "Active profile: Sara")

	out, err = run(t, dir, "family", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* Sara")
	assert.Contains(t, out, "1 medicines, 0 day streak, 1 measurements")
}

func TestWatchOnceWritesTextfile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "add", "Aspirin", "--dosage", "100mg", "--time", "00:00")
	require.NoError(t, err)

	textfile := dir + "/tdt.prom"
	_, err = run(t, dir, "watch", "--once", "--textfile", textfile)
	require.NoError(t, err)
	assert.FileExists(t, textfile)
}

func TestChangePaths(t *testing.T) {
	assert.Len(t, changePaths(storage.BackendFile, "/d"), len(storage.Buckets))
	assert.Equal(t, []string{"/d/tdt.db-wal"}, changePaths(storage.BackendSQLite, "/d"))
	assert.Nil(t, changePaths(storage.BackendBadger, "/d"))
}
