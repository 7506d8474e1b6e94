package storage

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

// Repository reads and writes whole-bucket snapshots. Reads never fail:
// missing or unreadable state is logged and replaced by the default value.
type Repository struct {
	backend Backend
	logger  *zap.Logger
}

// NewRepository wraps backend.
func NewRepository(backend Backend, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{backend: backend, logger: logger}
}

// Close closes the underlying backend.
func (r *Repository) Close() error {
	return r.backend.Close()
}

// load decodes bucket b into v. It reports whether v was filled from storage.
func (r *Repository) load(b Bucket, v any) bool {
	data, found, err := r.backend.Get(b)
	if err != nil {
		r.logger.Warn("Unreadable bucket, using defaults", zap.String("bucket", string(b)), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		fields := []zap.Field{zap.String("bucket", string(b)), zap.Error(err)}
		if fb, ok := r.backend.(*FileBackend); ok {
			if backup, qerr := fb.Quarantine(b); qerr == nil {
				fields = append(fields, zap.String("backup", backup))
			}
		}
		r.logger.Warn("Corrupt bucket, using defaults", fields...)
		return false
	}
	return true
}

func (r *Repository) save(b Bucket, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Wrap(fmt.Errorf("marshalling %s: %w", b, err), apperr.ErrInternal.Code, "encode snapshot")
	}
	if err := r.backend.Put(b, data); err != nil {
		return apperr.Wrap(err, apperr.ErrStorageWrite.Code, "save "+string(b))
	}
	return nil
}

// Medicines returns the catalog in insertion order.
func (r *Repository) Medicines() []model.Medicine {
	var meds []model.Medicine
	if !r.load(BucketMedicines, &meds) {
		return []model.Medicine{}
	}
	for i := range meds {
		if meds[i].Taken == nil {
			meds[i].Taken = map[string]bool{}
		}
	}
	return meds
}

// SaveMedicines replaces the catalog snapshot.
func (r *Repository) SaveMedicines(meds []model.Medicine) error {
	return r.save(BucketMedicines, meds)
}

// Measurements returns the measurement log in append order.
func (r *Repository) Measurements() []model.Measurement {
	var ms []model.Measurement
	if !r.load(BucketMeasurements, &ms) {
		return []model.Measurement{}
	}
	return ms
}

// AppendMeasurement adds m to the end of the log.
func (r *Repository) AppendMeasurement(m model.Measurement) error {
	ms := r.Measurements()
	ms = append(ms, m)
	return r.save(BucketMeasurements, ms)
}

// Family returns the stored members, or the default single member.
func (r *Repository) Family() []model.FamilyMember {
	var members []model.FamilyMember
	if !r.load(BucketFamily, &members) || len(members) == 0 {
		return model.DefaultFamily()
	}
	return members
}

// SaveFamily replaces the member list.
func (r *Repository) SaveFamily(members []model.FamilyMember) error {
	return r.save(BucketFamily, members)
}

// Streak returns the last stored streak counter.
func (r *Repository) Streak() int {
	var n int
	if !r.load(BucketStreak, &n) {
		return 0
	}
	return n
}

// SaveStreak stores the streak counter.
func (r *Repository) SaveStreak(n int) error {
	return r.save(BucketStreak, n)
}

// Preferences returns the stored settings merged over the defaults.
func (r *Repository) Preferences() model.Preferences {
	p := model.DefaultPreferences()
	if !r.load(BucketPreferences, &p) {
		return model.DefaultPreferences()
	}
	return p
}

// SavePreferences stores p.
func (r *Repository) SavePreferences(p model.Preferences) error {
	return r.save(BucketPreferences, p)
}
