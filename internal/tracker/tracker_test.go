package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/storage"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTracker(t *testing.T, at time.Time) (*Tracker, *fakeClock, *storage.Repository) {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	repo := storage.NewRepository(backend, nil)
	t.Cleanup(func() { repo.Close() })

	clock := &fakeClock{t: at}
	tr := New(repo, adherence.New(0, 0), nil, WithClock(clock.Now), WithLocation(time.UTC))
	return tr, clock, repo
}

func at(h, m int) time.Time {
	return time.Date(2024, 3, 1, h, m, 0, 0, time.UTC)
}

func addMed(t *testing.T, tr *Tracker, name string, times ...string) model.Medicine {
	t.Helper()
	med, err := tr.AddMedicine(model.MedicineInput{Name: name, Dosage: "10mg", Times: times})
	require.NoError(t, err)
	return med
}

func TestAddMedicinePersists(t *testing.T) {
	tr, _, repo := newTracker(t, at(8, 0))
	med := addMed(t, tr, "Aspirin", "8:00", "20:00")

	meds := repo.Medicines()
	require.Len(t, meds, 1)
	assert.Equal(t, med.ID, meds[0].ID)
	assert.Equal(t, []string{"08:00", "20:00"}, meds[0].Times)
	assert.Equal(t, model.DefaultType, meds[0].Type)
}

func TestAddMedicineRejectsInvalidInput(t *testing.T) {
	tr, _, repo := newTracker(t, at(8, 0))
	_, err := tr.AddMedicine(model.MedicineInput{Name: "Aspirin", Dosage: "10mg", Times: []string{"25:00"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidTime)
	assert.Empty(t, repo.Medicines())
}

func TestTakeExplicitTime(t *testing.T) {
	tr, _, repo := newTracker(t, at(21, 0))
	addMed(t, tr, "Aspirin", "08:00", "20:00")

	res, err := tr.Take("aspirin", "20:00")
	require.NoError(t, err)
	assert.False(t, res.AlreadyTaken)
	assert.Equal(t, "20:00", res.Time)
	assert.True(t, repo.Medicines()[0].IsTaken("2024-03-01", "20:00"))
	assert.False(t, repo.Medicines()[0].IsTaken("2024-03-01", "08:00"))

	res, err = tr.Take("aspirin", "20:00")
	require.NoError(t, err)
	assert.True(t, res.AlreadyTaken)
}

func TestTakePicksDueDose(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"overdue first", at(12, 0), "08:00"},
		{"due soon", at(7, 30), "08:00"},
		{"later overdue", at(20, 5), "08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _, _ := newTracker(t, tt.now)
			addMed(t, tr, "Aspirin", "08:00", "20:00")
			res, err := tr.Take("Aspirin", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Time)
		})
	}
}

func TestTakePicksEarliestScheduledDose(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"overdue", at(21, 0), "08:00"},
		{"due soon", at(7, 15), "08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _, _ := newTracker(t, tt.now)
			addMed(t, tr, "Aspirin", "20:00", "08:10", "08:00")
			res, err := tr.Take("Aspirin", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Time)
		})
	}
}

func TestTakeSkipsTakenSlots(t *testing.T) {
	tr, _, _ := newTracker(t, at(20, 5))
	addMed(t, tr, "Aspirin", "08:00", "20:00")

	_, err := tr.Take("Aspirin", "08:00")
	require.NoError(t, err)
	res, err := tr.Take("Aspirin", "")
	require.NoError(t, err)
	assert.Equal(t, "20:00", res.Time)
}

func TestTakeErrors(t *testing.T) {
	tr, _, _ := newTracker(t, at(5, 0))
	addMed(t, tr, "Aspirin", "08:00")
	addMed(t, tr, "aspirin", "09:00")
	addMed(t, tr, "Vitamin D", "12:00")

	_, err := tr.Take("Ibuprofen", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = tr.Take("ASPIRIN", "08:00")
	assert.ErrorIs(t, err, apperr.ErrAmbiguous)

	_, err = tr.Take("Vitamin D", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTime, "nothing is due at 05:00")

	_, err = tr.Take("Vitamin D", "13:00")
	assert.ErrorIs(t, err, apperr.ErrInvalidTime)

	_, err = tr.Take("Vitamin D", "noon")
	assert.ErrorIs(t, err, apperr.ErrInvalidTime)
}

func TestTakeByIDPrefix(t *testing.T) {
	tr, _, _ := newTracker(t, at(12, 0))
	med := addMed(t, tr, "Aspirin", "12:00")

	res, err := tr.Take(med.ShortID(), "")
	require.NoError(t, err)
	assert.Equal(t, med.ID, res.Medicine.ID)
}

func TestTakeUpdatesStreak(t *testing.T) {
	tr, clock, repo := newTracker(t, at(9, 0))
	addMed(t, tr, "Aspirin", "08:00")

	res, err := tr.Take("Aspirin", "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, repo.Streak())

	clock.t = clock.t.AddDate(0, 0, 1)
	res, err = tr.Take("Aspirin", "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, 2, repo.Streak())
}

func TestToday(t *testing.T) {
	tr, _, _ := newTracker(t, at(12, 0))
	addMed(t, tr, "Aspirin", "08:00", "12:30", "20:00")
	_, err := tr.Take("Aspirin", "08:00")
	require.NoError(t, err)

	view := tr.Today()
	assert.Equal(t, "2024-03-01", string(view.Day))
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 1, view.Completed)
	assert.Equal(t, 33, view.Completion)
	require.Len(t, view.Doses, 3)
	assert.Equal(t, adherence.Taken, view.Doses[0].Status)
	assert.Equal(t, adherence.DueSoon, view.Doses[1].Status)
	assert.Equal(t, adherence.Upcoming, view.Doses[2].Status)
}

func TestAlertsRespectNotificationSetting(t *testing.T) {
	tr, _, _ := newTracker(t, at(9, 0))
	addMed(t, tr, "Aspirin", "08:00", "08:45")

	doses, enabled := tr.Alerts()
	assert.True(t, enabled)
	require.Len(t, doses, 1)
	assert.Equal(t, "08:00", doses[0].Time)
	assert.Equal(t, 60, doses[0].MinutesLate)

	_, err := tr.Settings().ToggleCriticalNotifications()
	require.NoError(t, err)
	doses, enabled = tr.Alerts()
	assert.False(t, enabled)
	assert.Empty(t, doses)
}

func TestSnapshot(t *testing.T) {
	tr, _, _ := newTracker(t, at(9, 0))
	addMed(t, tr, "Aspirin", "08:00", "08:45")
	_, err := tr.Take("Aspirin", "08:45")
	require.NoError(t, err)

	snap, err := tr.Snapshot(1)
	require.NoError(t, err)
	assert.Equal(t, at(9, 0), snap.At)
	assert.Equal(t, "2024-03-01", string(snap.Day))
	require.Len(t, snap.Doses, 2)
	require.Len(t, snap.Critical, 1)
	assert.Equal(t, "08:00", snap.Critical[0].Time)
	assert.Equal(t, 50, snap.Completion)
	assert.Equal(t, 50, snap.Adherence)
	assert.Equal(t, 0, snap.Streak)
	assert.True(t, snap.Preferences.CriticalNotifications)

	_, err = tr.Snapshot(0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestStats(t *testing.T) {
	tr, clock, _ := newTracker(t, at(9, 0))
	addMed(t, tr, "Aspirin", "08:00")
	_, err := tr.AddMedicine(model.MedicineInput{Name: "D3", Dosage: "1000IU", Type: "vitamin", Times: []string{"08:00"}})
	require.NoError(t, err)

	_, err = tr.Take("Aspirin", "")
	require.NoError(t, err)
	clock.t = clock.t.AddDate(0, 0, 1)
	_, err = tr.Take("Aspirin", "")
	require.NoError(t, err)
	_, err = tr.Take("D3", "")
	require.NoError(t, err)

	view, err := tr.Stats(3)
	require.NoError(t, err)
	require.Len(t, view.Series, 3)
	assert.Equal(t, []int{0, 50, 100}, []int{view.Series[0].Percentage, view.Series[1].Percentage, view.Series[2].Percentage})
	assert.Equal(t, "2/3", view.Series[2].Label)
	assert.Equal(t, 50, view.Overall)
	assert.Equal(t, []adherence.TypeCount{{Type: "medicine", Count: 1}, {Type: "vitamin", Count: 1}}, view.Types)
	assert.Equal(t, 2, view.DosesPerDay)
	assert.Equal(t, 1, view.Streak)

	_, err = tr.Stats(0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestHistory(t *testing.T) {
	tr, clock, _ := newTracker(t, at(9, 0))
	addMed(t, tr, "Aspirin", "08:00", "21:00")
	_, err := tr.Take("Aspirin", "08:00")
	require.NoError(t, err)
	clock.t = clock.t.AddDate(0, 0, 1)

	records, err := tr.History(2)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "taken", records[0].Status)
	assert.Equal(t, StatusMissed, records[1].Status)
	assert.Equal(t, "overdue", records[2].Status)
	assert.Equal(t, "upcoming", records[3].Status)
	assert.Equal(t, "2024-03-02", string(records[3].Day))
}

func TestMeasurements(t *testing.T) {
	tr, clock, _ := newTracker(t, at(9, 0))
	_, err := tr.AddMeasurement("bp", "120/80", "")
	require.NoError(t, err)
	clock.t = clock.t.Add(time.Hour)
	_, err = tr.AddMeasurement("blood-pressure", "130/84", "after walk")
	require.NoError(t, err)

	_, err = tr.AddMeasurement("weight", "-3", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidMeasurement)
	_, err = tr.AddMeasurement("height", "180", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidMeasurement)
	_, err = tr.AddMeasurement("glucose", "NaN", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidMeasurement)

	sums := tr.MeasurementSummaries(model.BloodPressure)
	require.Len(t, sums, 1)
	assert.Equal(t, "125/82", sums[0].Average)
	require.NotNil(t, sums[0].Latest)
	assert.Equal(t, 130, sums[0].Latest.Systolic)

	assert.Len(t, tr.MeasurementSummaries(), len(model.MeasurementKinds))
}

func TestFamily(t *testing.T) {
	tr, _, repo := newTracker(t, at(9, 0))
	assert.Equal(t, "Me", tr.ActiveMember().Name)

	m, err := tr.AddFamilyMember("Sara", "daughter")
	require.NoError(t, err)
	assert.False(t, m.Active)
	assert.Equal(t, model.MemberColors[1], m.Color)

	_, err = tr.AddFamilyMember("  ", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	switched, err := tr.SwitchFamilyMember("sara")
	require.NoError(t, err)
	assert.Equal(t, m.ID, switched.ID)
	assert.Equal(t, "Sara", tr.ActiveMember().Name)

	active := 0
	for _, member := range repo.Family() {
		if member.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)

	_, err = tr.SwitchFamilyMember("Nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProfileTotals(t *testing.T) {
	tr, _, _ := newTracker(t, at(9, 0))
	assert.Equal(t, ProfileTotals{}, tr.Profile())

	addMed(t, tr, "Aspirin", "08:00")
	_, err := tr.AddMeasurement("weight", "70.5", "")
	require.NoError(t, err)
	_, err = tr.Take("Aspirin", "")
	require.NoError(t, err)

	assert.Equal(t, ProfileTotals{Medicines: 1, Streak: 1, Measurements: 1}, tr.Profile())
}
