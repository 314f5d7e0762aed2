package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/stretchr/testify/require"
)

func TestCompleteOnboarding_SetsFlagAndUpserts(t *testing.T) {
	fc := &fakeClient{}
	svc := NewProfileService(fc)

	in := &models.Profile{UserID: "u1", FullName: "Ann", Age: 29, HeightCm: 165, WeightKg: 58, Allergies: "None"}
	saved, err := svc.CompleteOnboarding(context.Background(), in)
	require.NoError(t, err)
	require.True(t, saved.OnboardingCompleted)
	require.True(t, fc.LastUpsert.OnboardingCompleted)
	require.False(t, in.OnboardingCompleted, "caller's value must not be mutated")
}

func TestCompleteOnboarding_RejectsMissingField(t *testing.T) {
	fc := &fakeClient{}
	svc := NewProfileService(fc)

	in := &models.Profile{UserID: "u1", Age: 29, HeightCm: 165, WeightKg: 58, Allergies: ""}
	_, err := svc.CompleteOnboarding(context.Background(), in)
	require.ErrorIs(t, err, models.ErrIncompleteProfile)
	require.Nil(t, fc.LastUpsert, "nothing may reach the store")
}

func TestCompleteOnboarding_WrapsStoreError(t *testing.T) {
	fc := &fakeClient{UpsertErr: &client.StatusError{Kind: client.ErrInvalidArgument, Message: "age must be positive"}}
	svc := NewProfileService(fc)

	_, err := svc.CompleteOnboarding(context.Background(), &models.Profile{UserID: "u1", Age: 1, HeightCm: 1, WeightKg: 1, Allergies: "x"})
	require.ErrorIs(t, err, client.ErrInvalidArgument)
	require.ErrorContains(t, err, "save profile")
}

func TestGetProfile_NotFoundPassesThrough(t *testing.T) {
	fc := &fakeClient{ProfileErr: &client.StatusError{Kind: client.ErrNotFound}}
	svc := NewProfileService(fc)

	_, err := svc.GetProfile(context.Background(), "u1")
	require.ErrorIs(t, err, client.ErrNotFound)
}
