package tracker

import (
	"strings"

	"go.uber.org/zap"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
	"github.com/Tiliavir/trivial-dose-tracker/internal/model"
)

// Family returns the member profiles.
func (t *Tracker) Family() []model.FamilyMember {
	return t.repo.Family()
}

// ActiveMember returns the currently selected profile.
func (t *Tracker) ActiveMember() model.FamilyMember {
	members := t.repo.Family()
	for _, m := range members {
		if m.Active {
			return m
		}
	}
	return members[0]
}

// AddFamilyMember appends a new, inactive member.
func (t *Tracker) AddFamilyMember(name, relation string) (model.FamilyMember, error) {
	members := t.repo.Family()
	m, err := model.NewFamilyMember(name, relation, len(members))
	if err != nil {
		return model.FamilyMember{}, err
	}
	members = append(members, m)
	if err := t.repo.SaveFamily(members); err != nil {
		return model.FamilyMember{}, err
	}
	t.logger.Info("Family member added", zap.String("id", m.ID), zap.String("name", m.Name))
	return m, nil
}

// SwitchFamilyMember makes the member matching ref (ID, ID prefix or
// case-insensitive name) the only active one.
func (t *Tracker) SwitchFamilyMember(ref string) (model.FamilyMember, error) {
	members := t.repo.Family()
	idx := -1
	for i, m := range members {
		if m.ID == ref || strings.EqualFold(m.Name, ref) {
			idx = i
			break
		}
	}
	if idx < 0 {
		var prefixed []int
		for i, m := range members {
			if ref != "" && strings.HasPrefix(m.ID, ref) {
				prefixed = append(prefixed, i)
			}
		}
		switch len(prefixed) {
		case 0:
			return model.FamilyMember{}, apperr.Invalid(apperr.ErrNotFound, "no family member matches %q", ref)
		case 1:
			idx = prefixed[0]
		default:
			return model.FamilyMember{}, apperr.Invalid(apperr.ErrAmbiguous, "%q matches %d family members", ref, len(prefixed))
		}
	}

	for i := range members {
		members[i].Active = i == idx
	}
	if err := t.repo.SaveFamily(members); err != nil {
		return model.FamilyMember{}, err
	}
	return members[idx], nil
}

// ProfileTotals summarizes the data held for the profile.
type ProfileTotals struct {
	Medicines    int
	Streak       int
	Measurements int
}

// Profile returns the totals shown under the family list. Streak is the
// counter stored by the last Take.
func (t *Tracker) Profile() ProfileTotals {
	return ProfileTotals{
		Medicines:    len(t.repo.Medicines()),
		Streak:       t.repo.Streak(),
		Measurements: len(t.repo.Measurements()),
	}
}
