package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/timecalc"
)

// Known medicine types. Type is stored as free text; these are the values
// offered by the CLI.
var MedicineTypes = []string{"medicine", "vitamin", "supplement", "birth-control", "insulin", "other"}

// Known frequencies. Frequency is informational only: every entry in Times
// is scheduled every calendar day.
var Frequencies = []string{"daily", "every-two-days", "weekly", "as-needed"}

const (
	DefaultType      = "medicine"
	DefaultFrequency = "daily"
)

// Medicine is one catalog entry with its daily dose times.
type Medicine struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Dosage    string          `json:"dosage" yaml:"dosage"`
	Type      string          `json:"type" yaml:"type"`
	Times     []string        `json:"times" yaml:"times"`
	Frequency string          `json:"frequency" yaml:"frequency"`
	Taken     map[string]bool `json:"taken" yaml:"taken"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// MedicineInput is unvalidated user input for a new medicine.
type MedicineInput struct {
	Name      string
	Dosage    string
	Type      string
	Times     []string
	Frequency string
}

// NewMedicine validates in and builds a Medicine with a fresh ID.
func NewMedicine(in MedicineInput, now time.Time) (Medicine, error) {
	name := strings.TrimSpace(in.Name)
	dosage := strings.TrimSpace(in.Dosage)
	if name == "" || dosage == "" {
		return Medicine{}, apperr.Invalid(apperr.ErrInvalidInput, "medicine name and dosage are required")
	}
	if len(in.Times) == 0 {
		return Medicine{}, apperr.Invalid(apperr.ErrInvalidTime, "at least one dose time is required")
	}
	times := make([]string, 0, len(in.Times))
	for _, raw := range in.Times {
		clock, err := timecalc.NormalizeClock(raw)
		if err != nil {
			return Medicine{}, apperr.Invalid(apperr.ErrInvalidTime, "%v", err)
		}
		times = append(times, clock)
	}

	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = DefaultType
	}
	freq := strings.TrimSpace(in.Frequency)
	if freq == "" {
		freq = DefaultFrequency
	}

	return Medicine{
		ID:        uuid.NewString(),
		Name:      name,
		Dosage:    dosage,
		Type:      typ,
		Times:     times,
		Frequency: freq,
		Taken:     map[string]bool{},
		CreatedAt: now,
	}, nil
}

// DoseKey is the taken-record key for one dose time on one day.
func DoseKey(day timecalc.DayID, clock string) string {
	return string(day) + "@" + clock
}

// IsTaken reports whether the dose at clock was marked taken on day.
func (m Medicine) IsTaken(day timecalc.DayID, clock string) bool {
	return m.Taken[DoseKey(day, clock)]
}

// ShortID returns the first eight characters of the ID for display.
func (m Medicine) ShortID() string {
	if len(m.ID) > 8 {
		return m.ID[:8]
	}
	return m.ID
}
