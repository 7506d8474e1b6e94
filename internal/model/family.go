package model

import (
	"strings"

	"github.com/google/uuid"

	apperr "github.com/Tiliavir/trivial-dose-tracker/internal/errors"
)

// MemberColors is the palette assigned to family members in order.
var MemberColors = []string{"#3b82f6", "#8b5cf6", "#ec4899", "#f59e0b", "#10b981"}

// FamilyMember is a profile whose medication the user manages.
type FamilyMember struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Relation string `json:"relation" yaml:"relation"`
	Color    string `json:"color" yaml:"color"`
	Active   bool   `json:"active" yaml:"active"`
}

// DefaultFamily is used when no family bucket has been stored yet.
func DefaultFamily() []FamilyMember {
	return []FamilyMember{{
		ID:       "me",
		Name:     "Me",
		Relation: "self",
		Color:    MemberColors[0],
		Active:   true,
	}}
}

// NewFamilyMember validates the input; the color depends on how many
// members exist already.
func NewFamilyMember(name, relation string, existing int) (FamilyMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FamilyMember{}, apperr.Invalid(apperr.ErrInvalidInput, "member name is required")
	}
	return FamilyMember{
		ID:       uuid.NewString(),
		Name:     name,
		Relation: strings.TrimSpace(relation),
		Color:    MemberColors[existing%len(MemberColors)],
	}, nil
}
