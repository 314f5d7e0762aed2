// Package profiles persists onboarding profiles, one row per user.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/nutrigate/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user never saved a profile.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates or replaces the profile and sets UpdatedAt.
	Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error)
}
