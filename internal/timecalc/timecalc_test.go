package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/trivial-dose-tracker/internal/timecalc"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:00", "08:00", false},
		{"8:05", "08:05", false},
		{" 23:59 ", "23:59", false},
		{"00:00", "00:00", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"12:5", "", true},
		{"1200", "", true},
		{"ab:cd", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := timecalc.NormalizeClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeClock(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeClock(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeClock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClockOn(t *testing.T) {
	ref := time.Date(2026, 2, 27, 14, 33, 45, 123, time.UTC)
	got := timecalc.MustClock("08:15").On(ref)
	want := time.Date(2026, 2, 27, 8, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On = %v, want %v", got, want)
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	// 23:30 UTC is already the next day at UTC+3.
	utc := time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC)
	if got := timecalc.Day(utc); got != "2026-02-27" {
		t.Errorf("Day(utc) = %q, want %q", got, "2026-02-27")
	}
	if got := timecalc.Day(utc.In(loc)); got != "2026-02-28" {
		t.Errorf("Day(local) = %q, want %q", got, "2026-02-28")
	}
}

func TestDayLabel(t *testing.T) {
	if got := timecalc.DayID("2026-03-01").Label(); got != "1/3" {
		t.Errorf("Label = %q, want %q", got, "1/3")
	}
}

func TestDaysEnding(t *testing.T) {
	ref := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	got := timecalc.DaysEnding(ref, 3)
	want := []timecalc.DayID{"2026-02-28", "2026-03-01", "2026-03-02"}
	if len(got) != len(want) {
		t.Fatalf("DaysEnding len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DaysEnding[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(timecalc.DaysEnding(ref, 0)) != 0 {
		t.Error("DaysEnding(0) should be empty")
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	got := timecalc.StartOfDay(time.Date(2026, 2, 27, 23, 59, 59, 5, loc))
	want := time.Date(2026, 2, 27, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}
