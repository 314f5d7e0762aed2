package models

import (
	"errors"
	"strings"
	"time"
)

// ErrIncompleteProfile is returned when a profile claims onboarding is done
// but one of the health fields is missing.
var ErrIncompleteProfile = errors.New("onboarding completed requires age, height, weight and allergies")

// Profile is the per-user onboarding record.
type Profile struct {
	UserID              string
	FullName            string
	Age                 int
	HeightCm            float64
	WeightKg            float64
	Allergies           string
	OnboardingCompleted bool
	UpdatedAt           time.Time
}

// HealthFieldsPresent reports whether all four health/dietary fields are set.
// "None" is a valid allergies answer.
func (p *Profile) HealthFieldsPresent() bool {
	return p.Age > 0 &&
		p.HeightCm > 0 &&
		p.WeightKg > 0 &&
		strings.TrimSpace(p.Allergies) != ""
}

// Validate enforces that OnboardingCompleted implies every health field.
func (p *Profile) Validate() error {
	if p.OnboardingCompleted && !p.HealthFieldsPresent() {
		return ErrIncompleteProfile
	}
	return nil
}
