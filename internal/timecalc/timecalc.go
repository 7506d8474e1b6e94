package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the canonical, locale-independent day identity format.
const DayLayout = "2006-01-02"

// DayID identifies a calendar day, e.g. "2026-02-27".
type DayID string

// Day returns the day identity of t in t's location.
func Day(t time.Time) DayID {
	return DayID(t.Format(DayLayout))
}

// Time parses the day identity as midnight in loc.
func (d DayID) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, string(d), loc)
}

// Label returns the short chart label "d/m".
func (d DayID) Label() string {
	t, err := d.Time(time.UTC)
	if err != nil {
		return string(d)
	}
	return fmt.Sprintf("%d/%d", t.Day(), int(t.Month()))
}

// Clock is a validated 24-hour time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24-hour). Single-digit hours are accepted.
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(m) != 2 || len(h) == 0 || len(h) > 2 {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// MustClock is ParseClock for already validated input. An invalid value
// yields midnight.
func MustClock(s string) Clock {
	c, _ := ParseClock(s)
	return c
}

// String formats the clock as zero-padded "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns t's date with the time of day replaced by c, seconds zeroed.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

// NormalizeClock validates s and returns its canonical "HH:MM" form.
func NormalizeClock(s string) (string, error) {
	c, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysEnding returns the n calendar days ending with t's day, oldest first.
func DaysEnding(t time.Time, n int) []DayID {
	if n <= 0 {
		return nil
	}
	start := StartOfDay(t)
	days := make([]DayID, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, Day(start.AddDate(0, 0, -i)))
	}
	return days
}
