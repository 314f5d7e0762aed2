package gate

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

type fakeSessions struct {
	mu      sync.Mutex
	session *models.Session
	err     error
	calls   int
}

func (f *fakeSessions) CurrentSession(context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.session, f.err
}

func (f *fakeSessions) set(s *models.Session, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session, f.err = s, err
}

type fakeProfiles struct {
	mu      sync.Mutex
	profile *models.Profile
	err     error
	calls   int
	lastID  string
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastID = userID
	return f.profile, f.err
}

func (f *fakeProfiles) set(p *models.Profile, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile, f.err = p, err
}

var ann = &models.Session{UserID: "u1", Email: "ann@example.com", DisplayName: "Ann"}

func completeProfile() *models.Profile {
	return &models.Profile{UserID: "u1", FullName: "Ann", Age: 34, HeightCm: 170, WeightKg: 65, Allergies: "None", OnboardingCompleted: true}
}

// sourcesFor builds collaborators whose answers resolve to state.
func sourcesFor(state State) (*fakeSessions, *fakeProfiles) {
	s, p := &fakeSessions{}, &fakeProfiles{}
	switch state {
	case StateUnauthenticated:
	case StateNoProfile:
		s.session = ann
		p.err = &client.StatusError{Kind: client.ErrNotFound, Message: "profile not found"}
	case StateIncomplete:
		s.session = ann
		p.profile = &models.Profile{UserID: "u1", FullName: "Ann"}
	case StateComplete:
		s.session = ann
		p.profile = completeProfile()
	}
	return s, p
}

func nopLogger() logging.Logger { return logging.Nop{} }
