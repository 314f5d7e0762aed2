package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
)

// ProfileService reads and writes the onboarding record.
type ProfileService interface {
	// GetProfile returns client.ErrNotFound when the user has no record yet.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// CompleteOnboarding upserts p with OnboardingCompleted set. A profile
	// missing any health field is rejected before it reaches the server.
	CompleteOnboarding(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

type profileService struct {
	client client.Client
}

func NewProfileService(c client.Client) ProfileService {
	return &profileService{client: c}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.client.GetProfile(ctx, userID)
}

func (s *profileService) CompleteOnboarding(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	upsert := *p
	upsert.OnboardingCompleted = true
	if err := upsert.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.client.UpsertProfile(ctx, &upsert)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}
