// Package models defines server-side data models persisted in the database.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/common"
)

// Profile is the onboarding record of a user, one per user.
type Profile struct {
	UserID              string  `validate:"required"`
	FullName            string  `validate:"max=200"`
	Age                 int     `validate:"gte=0,lt=150"`
	HeightCm            float64 `validate:"gte=0,lt=300"`
	WeightKg            float64 `validate:"gte=0,lt=700"`
	Allergies           string  `validate:"max=1000"`
	OnboardingCompleted bool
	UpdatedAt           time.Time
}

// Validate checks that a completed profile has every health field.
func (p *Profile) Validate() error {
	if !p.OnboardingCompleted {
		return nil
	}
	if p.Age <= 0 || p.HeightCm <= 0 || p.WeightKg <= 0 || strings.TrimSpace(p.Allergies) == "" {
		return common.ErrIncompleteProfile
	}
	return nil
}
