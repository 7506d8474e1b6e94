package tracker

import (
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-dose-tracker/internal/measure"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

// AddMeasurement parses raw for the named kind and appends it to the log.
func (t *Tracker) AddMeasurement(kind, raw, note string) (model.Measurement, error) {
	k, err := model.ParseMeasurementKind(kind)
	if err != nil {
		return model.Measurement{}, err
	}
	m, err := model.NewMeasurement(k, raw, note, t.Now())
	if err != nil {
		return model.Measurement{}, err
	}
	if err := t.repo.AppendMeasurement(m); err != nil {
		return model.Measurement{}, err
	}
	t.logger.Info("Measurement recorded", zap.String("kind", string(k)), zap.String("value", m.Display()))
	return m, nil
}

// MeasurementSummaries summarizes the given kinds, or all kinds when none
// are named.
func (t *Tracker) MeasurementSummaries(kinds ...model.MeasurementKind) []measure.Summary {
	if len(kinds) == 0 {
		kinds = model.MeasurementKinds
	}
	log := t.repo.Measurements()
	out := make([]measure.Summary, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, measure.Summarize(log, k))
	}
	return out
}
