package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
)

// MeasurementKind is the type of a health measurement.
type MeasurementKind string

const (
	BloodPressure MeasurementKind = "blood-pressure"
	Glucose       MeasurementKind = "glucose"
	Weight        MeasurementKind = "weight"
)

// MeasurementKinds lists the accepted kinds in display order.
var MeasurementKinds = []MeasurementKind{BloodPressure, Glucose, Weight}

// Unit returns the display unit for k.
func (k MeasurementKind) Unit() string {
	switch k {
	case BloodPressure:
		return "mmHg"
	case Glucose:
		return "mg/dL"
	case Weight:
		return "kg"
	}
	return ""
}

// ParseMeasurementKind accepts the canonical names plus a few short aliases.
func ParseMeasurementKind(s string) (MeasurementKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blood-pressure", "bp", "pressure":
		return BloodPressure, nil
	case "glucose", "sugar":
		return Glucose, nil
	case "weight":
		return Weight, nil
	}
	return "", apperr.Invalid(apperr.ErrInvalidMeasurement, "unknown measurement kind %q (want blood-pressure, glucose or weight)", s)
}

// Measurement is one immutable entry of the measurement log.
// Blood pressure uses Systolic/Diastolic; other kinds use Value.
type Measurement struct {
	ID        string          `json:"id" yaml:"id"`
	Kind      MeasurementKind `json:"kind" yaml:"kind"`
	Systolic  int             `json:"systolic,omitempty" yaml:"systolic,omitempty"`
	Diastolic int             `json:"diastolic,omitempty" yaml:"diastolic,omitempty"`
	Value     float64         `json:"value,omitempty" yaml:"value,omitempty"`
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
	Note      *string         `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewMeasurement parses raw for kind and builds a Measurement.
// Blood pressure must be "<systolic>/<diastolic>".
func NewMeasurement(kind MeasurementKind, raw, note string, at time.Time) (Measurement, error) {
	m := Measurement{
		ID:        uuid.NewString(),
		Kind:      kind,
		Timestamp: at,
	}
	raw = strings.TrimSpace(raw)

	switch kind {
	case BloodPressure:
		sys, dia, ok := strings.Cut(raw, "/")
		if !ok {
			return Measurement{}, apperr.Invalid(apperr.ErrInvalidMeasurement, "blood pressure must be systolic/diastolic, got %q", raw)
		}
		s, err1 := strconv.Atoi(strings.TrimSpace(sys))
		d, err2 := strconv.Atoi(strings.TrimSpace(dia))
		if err1 != nil || err2 != nil || s <= 0 || d <= 0 {
			return Measurement{}, apperr.Invalid(apperr.ErrInvalidMeasurement, "blood pressure values must be positive integers, got %q", raw)
		}
		m.Systolic, m.Diastolic = s, d
	case Glucose, Weight:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return Measurement{}, apperr.Invalid(apperr.ErrInvalidMeasurement, "%s must be a positive number, got %q", kind, raw)
		}
		m.Value = v
	default:
		return Measurement{}, apperr.Invalid(apperr.ErrInvalidMeasurement, "unknown measurement kind %q", kind)
	}

	if n := strings.TrimSpace(note); n != "" {
		m.Note = &n
	}
	return m, nil
}

// Display formats the value with its unit, e.g. "120/80 mmHg" or "95.0 mg/dL".
func (m Measurement) Display() string {
	if m.Kind == BloodPressure {
		return fmt.Sprintf("%d/%d %s", m.Systolic, m.Diastolic, m.Kind.Unit())
	}
	return fmt.Sprintf("%.1f %s", m.Value, m.Kind.Unit())
}
