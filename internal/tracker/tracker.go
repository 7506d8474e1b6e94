// Package tracker implements the tdt use cases on top of the adherence
// engine and the snapshot repository. Every operation loads a fresh
// snapshot, so concurrent tdt processes see each other's writes.
package tracker

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-dose-tracker/internal/adherence"
	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/settings"
	"github.com/Tiliavir/trivial-dose-tracker/internal/storage"
	"github.com/Tiliavir/trivial-dose-tracker/internal/timecalc"
)

// Tracker is the application service used by every command.
type Tracker struct {
	repo     *storage.Repository
	engine   adherence.Engine
	settings *settings.Store
	logger   *zap.Logger
	now      func() time.Time
	loc      *time.Location
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the timezone that decides calendar days.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// New builds a Tracker. Preferences are loaded once from repo.
func New(repo *storage.Repository, engine adherence.Engine, logger *zap.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		repo:     repo,
		engine:   engine,
		settings: settings.NewStore(repo, logger),
		logger:   logger,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Now is the reference instant in the configured location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Engine returns the engine with the configured thresholds.
func (t *Tracker) Engine() adherence.Engine {
	return t.engine
}

// Settings returns the preferences store.
func (t *Tracker) Settings() *settings.Store {
	return t.settings
}

// Medicines returns the current catalog.
func (t *Tracker) Medicines() []model.Medicine {
	return t.repo.Medicines()
}

// AddMedicine validates in and appends it to the catalog.
func (t *Tracker) AddMedicine(in model.MedicineInput) (model.Medicine, error) {
	med, err := model.NewMedicine(in, t.Now())
	if err != nil {
		return model.Medicine{}, err
	}
	meds := t.repo.Medicines()
	meds = append(meds, med)
	if err := t.repo.SaveMedicines(meds); err != nil {
		return model.Medicine{}, err
	}
	t.logger.Info("Medicine added", zap.String("id", med.ID), zap.String("name", med.Name), zap.Strings("times", med.Times))
	return med, nil
}

// findMedicine resolves ref as an ID, an ID prefix or a case-insensitive
// name and returns the catalog index.
func findMedicine(meds []model.Medicine, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, apperr.Invalid(apperr.ErrInvalidInput, "medicine reference is required")
	}

	var byName, byPrefix []int
	for i, med := range meds {
		if med.ID == ref {
			return i, nil
		}
		if strings.EqualFold(med.Name, ref) {
			byName = append(byName, i)
		}
		if strings.HasPrefix(med.ID, ref) {
			byPrefix = append(byPrefix, i)
		}
	}

	for _, matches := range [][]int{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return -1, apperr.Invalid(apperr.ErrAmbiguous, "%q matches %d medicines; use the ID shown by 'tdt list'", ref, len(matches))
		}
	}
	return -1, apperr.Invalid(apperr.ErrNotFound, "no medicine matches %q", ref)
}

// TakeResult describes the outcome of Take.
type TakeResult struct {
	Medicine     model.Medicine
	Time         string
	AlreadyTaken bool
	Streak       int
}

// Take marks the dose of ref at clock as taken for today. With an empty
// clock the untaken overdue dose with the earliest scheduled time is
// chosen, otherwise the earliest dose due soon. Taking a dose twice is a no-op.
func (t *Tracker) Take(ref, clock string) (TakeResult, error) {
	now := t.Now()
	meds := t.repo.Medicines()
	i, err := findMedicine(meds, ref)
	if err != nil {
		return TakeResult{}, err
	}
	med := meds[i]

	if clock == "" {
		clock, err = t.pickDueClock(med, now)
		if err != nil {
			return TakeResult{}, err
		}
	} else {
		clock, err = timecalc.NormalizeClock(clock)
		if err != nil {
			return TakeResult{}, apperr.Invalid(apperr.ErrInvalidTime, "%v", err)
		}
		if !hasTime(med, clock) {
			return TakeResult{}, apperr.Invalid(apperr.ErrInvalidTime, "%s is not scheduled at %s (times: %s)", med.Name, clock, strings.Join(med.Times, ", "))
		}
	}

	res := TakeResult{Time: clock}
	if med.IsTaken(timecalc.Day(now), clock) {
		res.Medicine = med
		res.AlreadyTaken = true
		res.Streak = adherence.Streak(meds, now)
		return res, nil
	}

	meds[i] = adherence.MarkTaken(med, clock, now)
	if err := t.repo.SaveMedicines(meds); err != nil {
		return TakeResult{}, err
	}
	res.Medicine = meds[i]
	res.Streak = adherence.Streak(meds, now)
	if err := t.repo.SaveStreak(res.Streak); err != nil {
		t.logger.Warn("Failed to store streak", zap.Error(err))
	}
	t.logger.Info("Dose taken", zap.String("medicine", med.Name), zap.String("time", clock), zap.Int("streak", res.Streak))
	return res, nil
}

func (t *Tracker) pickDueClock(med model.Medicine, now time.Time) (string, error) {
	var overdue, dueSoon *adherence.DoseInstance
	for _, d := range t.engine.Schedule([]model.Medicine{med}, now) {
		d := d
		switch d.Status {
		case adherence.Overdue:
			if overdue == nil || d.Scheduled.Before(overdue.Scheduled) {
				overdue = &d
			}
		case adherence.DueSoon:
			if dueSoon == nil || d.Scheduled.Before(dueSoon.Scheduled) {
				dueSoon = &d
			}
		}
	}
	switch {
	case overdue != nil:
		return overdue.Time, nil
	case dueSoon != nil:
		return dueSoon.Time, nil
	}
	return "", apperr.Invalid(apperr.ErrInvalidTime, "no dose of %s is due now; pass the time explicitly (times: %s)", med.Name, strings.Join(med.Times, ", "))
}

func hasTime(med model.Medicine, clock string) bool {
	for _, c := range med.Times {
		if c == clock {
			return true
		}
	}
	return false
}

// TodayView is the home screen: every dose of today with its status.
type TodayView struct {
	Day        timecalc.DayID
	Doses      []adherence.DoseInstance
	Total      int
	Completed  int
	Completion int
	Streak     int
}

// Today evaluates the catalog for the current day.
func (t *Tracker) Today() TodayView {
	now := t.Now()
	meds := t.repo.Medicines()
	day := timecalc.Day(now)
	total, completed := adherence.DayCounts(meds, day)
	return TodayView{
		Day:        day,
		Doses:      t.engine.Schedule(meds, now),
		Total:      total,
		Completed:  completed,
		Completion: adherence.DayCompletion(meds, day),
		Streak:     adherence.Streak(meds, now),
	}
}

// Alerts returns the critical overdue doses. enabled is false when the
// user turned critical notifications off; doses is then empty.
func (t *Tracker) Alerts() (doses []adherence.OverdueDose, enabled bool) {
	if !t.settings.Get().CriticalNotifications {
		return nil, false
	}
	return t.engine.OverdueCritical(t.repo.Medicines(), t.Now()), true
}

// StatsView is the statistics screen.
type StatsView struct {
	WindowDays   int                      `json:"window_days" yaml:"window_days"`
	Series       []adherence.DayAdherence `json:"series" yaml:"series"`
	Overall      int                      `json:"overall" yaml:"overall"`
	Types        []adherence.TypeCount    `json:"types" yaml:"types"`
	Medicines    int                      `json:"medicines" yaml:"medicines"`
	DosesPerDay  int                      `json:"doses_per_day" yaml:"doses_per_day"`
	TodayPercent int                      `json:"today" yaml:"today"`
	Streak       int                      `json:"streak" yaml:"streak"`
}

// Stats computes adherence over the windowDays days ending today.
func (t *Tracker) Stats(windowDays int) (StatsView, error) {
	if windowDays <= 0 {
		return StatsView{}, apperr.Invalid(apperr.ErrInvalidInput, "window must be at least one day")
	}
	now := t.Now()
	meds := t.repo.Medicines()
	series := adherence.TrailingAdherence(meds, now, windowDays)
	return StatsView{
		WindowDays:   windowDays,
		Series:       series,
		Overall:      adherence.OverallAdherence(series),
		Types:        adherence.TypeDistribution(meds),
		Medicines:    len(meds),
		DosesPerDay:  adherence.TotalDoses(meds),
		TodayPercent: adherence.DayCompletion(meds, timecalc.Day(now)),
		Streak:       adherence.Streak(meds, now),
	}, nil
}

// DoseRecord is one dose-slot of the history used by export.
type DoseRecord struct {
	Day      timecalc.DayID `json:"day" yaml:"day"`
	Time     string         `json:"time" yaml:"time"`
	Medicine string         `json:"medicine" yaml:"medicine"`
	Dosage   string         `json:"dosage" yaml:"dosage"`
	Type     string         `json:"type" yaml:"type"`
	Status   string         `json:"status" yaml:"status"`
}

// StatusMissed marks an untaken dose of a past day.
const StatusMissed = "missed"

// History lists every dose-slot of the days ending today, oldest day first.
// Past untaken doses are "missed"; today's carry their live status.
func (t *Tracker) History(days int) ([]DoseRecord, error) {
	if days <= 0 {
		return nil, apperr.Invalid(apperr.ErrInvalidInput, "days must be at least 1")
	}
	now := t.Now()
	today := timecalc.Day(now)
	meds := t.repo.Medicines()

	var out []DoseRecord
	for _, day := range timecalc.DaysEnding(now, days) {
		for _, med := range meds {
			for _, clock := range med.Times {
				status := StatusMissed
				switch {
				case med.IsTaken(day, clock):
					status = string(adherence.Taken)
				case day == today:
					status = string(t.engine.DoseStatus(med, clock, now).Status)
				}
				out = append(out, DoseRecord{
					Day:      day,
					Time:     clock,
					Medicine: med.Name,
					Dosage:   med.Dosage,
					Type:     med.Type,
					Status:   status,
				})
			}
		}
	}
	return out, nil
}

// Snapshot is one consistent evaluation of the catalog, as used by watch.
type Snapshot struct {
	At          time.Time
	Day         timecalc.DayID
	Doses       []adherence.DoseInstance
	Critical    []adherence.OverdueDose
	Completion  int
	Adherence   int
	Streak      int
	Preferences model.Preferences
}

// Snapshot loads the catalog once and derives every figure from it.
func (t *Tracker) Snapshot(windowDays int) (Snapshot, error) {
	if windowDays <= 0 {
		return Snapshot{}, apperr.Invalid(apperr.ErrInvalidInput, "window must be at least one day")
	}
	now := t.Now()
	meds := t.repo.Medicines()
	day := timecalc.Day(now)
	return Snapshot{
		At:          now,
		Day:         day,
		Doses:       t.engine.Schedule(meds, now),
		Critical:    t.engine.OverdueCritical(meds, now),
		Completion:  adherence.DayCompletion(meds, day),
		Adherence:   adherence.OverallAdherence(adherence.TrailingAdherence(meds, now, windowDays)),
		Streak:      adherence.Streak(meds, now),
		Preferences: t.settings.Get(),
	}, nil
}
