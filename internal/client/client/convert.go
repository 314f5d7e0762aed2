package client

import (
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/rpc"
)

func sessionFromRPC(s *rpc.Session) *models.Session {
	return &models.Session{UserID: s.UserID, Email: s.Email, DisplayName: s.DisplayName}
}

func profileFromRPC(p *rpc.Profile) *models.Profile {
	return &models.Profile{
		UserID:              p.UserID,
		FullName:            p.FullName,
		Age:                 int(p.Age),
		HeightCm:            p.HeightCm,
		WeightKg:            p.WeightKg,
		Allergies:           p.Allergies,
		OnboardingCompleted: p.OnboardingCompleted,
		UpdatedAt:           p.UpdatedAt,
	}
}

func profileToRPC(p *models.Profile) *rpc.Profile {
	return &rpc.Profile{
		UserID:              p.UserID,
		FullName:            p.FullName,
		Age:                 int32(p.Age),
		HeightCm:            p.HeightCm,
		WeightKg:            p.WeightKg,
		Allergies:           p.Allergies,
		OnboardingCompleted: p.OnboardingCompleted,
	}
}
