// Package adherence computes dose status, overdue alerts and adherence
// statistics from a medicine catalog snapshot and a reference instant.
// Every result is a deterministic function of its inputs; nothing here
// reads the clock or touches storage.
package adherence

import (
	"math"
	"time"

	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
	"github.com/Tiliavir/trivial-dose-tracker/internal/timecalc"
)

// Status of a single dose-slot on the reference day.
type Status string

const (
	Taken    Status = "taken"
	Overdue  Status = "overdue"
	DueSoon  Status = "due-soon"
	Upcoming Status = "upcoming"
)

const (
	DefaultCriticalAfter = 30 * time.Minute
	DefaultDueSoonWithin = 60 * time.Minute

	// streakLookback bounds how far back Streak searches.
	streakLookback = 366
)

// Engine holds the thresholds used for status classification.
type Engine struct {
	CriticalAfter time.Duration
	DueSoonWithin time.Duration
}

// New returns an engine with the default thresholds; non-positive
// arguments fall back to the defaults.
func New(criticalAfter, dueSoonWithin time.Duration) Engine {
	if criticalAfter <= 0 {
		criticalAfter = DefaultCriticalAfter
	}
	if dueSoonWithin <= 0 {
		dueSoonWithin = DefaultDueSoonWithin
	}
	return Engine{CriticalAfter: criticalAfter, DueSoonWithin: dueSoonWithin}
}

// DoseView is the evaluated state of one dose-slot.
type DoseView struct {
	Status      Status
	Scheduled   time.Time
	MinutesLate int
	Critical    bool
}

// DoseStatus classifies the dose at clock for the day of now.
func (e Engine) DoseStatus(med model.Medicine, clock string, now time.Time) DoseView {
	scheduled := timecalc.MustClock(clock).On(now)
	v := DoseView{Scheduled: scheduled}
	if med.IsTaken(timecalc.Day(now), clock) {
		v.Status = Taken
		return v
	}

	delta := now.Sub(scheduled)
	switch {
	case delta >= 0:
		v.Status = Overdue
		v.MinutesLate = int(delta / time.Minute)
		v.Critical = delta >= e.CriticalAfter
	case delta > -e.DueSoonWithin:
		v.Status = DueSoon
	default:
		v.Status = Upcoming
	}
	return v
}

// MarkTaken returns a copy of med with the dose at clock marked taken for
// the day of now. Marking an already taken dose again changes nothing.
func MarkTaken(med model.Medicine, clock string, now time.Time) model.Medicine {
	taken := make(map[string]bool, len(med.Taken)+1)
	for k, v := range med.Taken {
		taken[k] = v
	}
	taken[model.DoseKey(timecalc.Day(now), clock)] = true
	med.Taken = taken
	return med
}

// DoseInstance pairs a medicine with one of its scheduled times for the
// reference day.
type DoseInstance struct {
	Medicine model.Medicine
	Time     string
	DoseView
}

// Schedule returns every dose-slot of the day of now in catalog order.
func (e Engine) Schedule(meds []model.Medicine, now time.Time) []DoseInstance {
	var out []DoseInstance
	for _, med := range meds {
		for _, clock := range med.Times {
			out = append(out, DoseInstance{
				Medicine: med,
				Time:     clock,
				DoseView: e.DoseStatus(med, clock, now),
			})
		}
	}
	return out
}

// OverdueDose is a dose that is at least the critical threshold late.
type OverdueDose struct {
	Medicine    model.Medicine
	Time        string
	MinutesLate int
}

// OverdueCritical lists the untaken doses of the day of now that are late
// by the critical threshold or more, in catalog order then time order.
func (e Engine) OverdueCritical(meds []model.Medicine, now time.Time) []OverdueDose {
	var out []OverdueDose
	for _, d := range e.Schedule(meds, now) {
		if d.Critical {
			out = append(out, OverdueDose{Medicine: d.Medicine, Time: d.Time, MinutesLate: d.MinutesLate})
		}
	}
	return out
}

// DayCounts returns the number of scheduled and taken dose-slots on day.
func DayCounts(meds []model.Medicine, day timecalc.DayID) (total, completed int) {
	for _, med := range meds {
		total += len(med.Times)
		for _, clock := range med.Times {
			if med.IsTaken(day, clock) {
				completed++
			}
		}
	}
	return total, completed
}

// DayCompletion is the percentage of day's dose-slots marked taken,
// rounded to the nearest integer. It is 0 when nothing is scheduled.
func DayCompletion(meds []model.Medicine, day timecalc.DayID) int {
	total, completed := DayCounts(meds, day)
	return percent(completed, total)
}

// DayAdherence is one point of an adherence series.
type DayAdherence struct {
	Day        timecalc.DayID `json:"day" yaml:"day"`
	Label      string         `json:"label" yaml:"label"`
	Percentage int            `json:"percentage" yaml:"percentage"`
}

// TrailingAdherence computes DayCompletion for the windowDays days ending
// with the day of now, oldest first.
func TrailingAdherence(meds []model.Medicine, now time.Time, windowDays int) []DayAdherence {
	days := timecalc.DaysEnding(now, windowDays)
	out := make([]DayAdherence, 0, len(days))
	for _, day := range days {
		out = append(out, DayAdherence{
			Day:        day,
			Label:      day.Label(),
			Percentage: DayCompletion(meds, day),
		})
	}
	return out
}

// OverallAdherence is the rounded mean of the series, 0 when empty.
func OverallAdherence(series []DayAdherence) int {
	if len(series) == 0 {
		return 0
	}
	sum := 0
	for _, d := range series {
		sum += d.Percentage
	}
	return int(math.Round(float64(sum) / float64(len(series))))
}

// TypeCount is the number of medicines of one type.
type TypeCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// TypeDistribution groups medicines by type in first-seen order.
func TypeDistribution(meds []model.Medicine) []TypeCount {
	var out []TypeCount
	index := map[string]int{}
	for _, med := range meds {
		i, ok := index[med.Type]
		if !ok {
			index[med.Type] = len(out)
			out = append(out, TypeCount{Type: med.Type, Count: 1})
			continue
		}
		out[i].Count++
	}
	return out
}

// Streak counts consecutive fully completed days ending today when today
// is already complete, otherwise ending yesterday. A day with nothing
// scheduled ends the streak.
func Streak(meds []model.Medicine, now time.Time) int {
	day := timecalc.StartOfDay(now)
	if !complete(meds, timecalc.Day(day)) {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for n < streakLookback && complete(meds, timecalc.Day(day)) {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// TotalDoses is the number of dose-slots scheduled per day.
func TotalDoses(meds []model.Medicine) int {
	n := 0
	for _, med := range meds {
		n += len(med.Times)
	}
	return n
}

func complete(meds []model.Medicine, day timecalc.DayID) bool {
	total, completed := DayCounts(meds, day)
	return total > 0 && completed == total
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
