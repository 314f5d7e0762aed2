package gate

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
)

// SessionSource answers "who is signed in". A nil session with a nil error
// means nobody.
type SessionSource interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
}

// ProfileSource reads the onboarding record. A missing record is reported
// as an error matching client.ErrNotFound.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type SessionKind int

const (
	SessionUnauthenticated SessionKind = iota
	SessionAuthenticated
	SessionTransient
)

type SessionOutcome struct {
	Kind    SessionKind
	Session *models.Session
	// Err is the collaborator error behind a transient or unauthenticated
	// outcome, kept for logging.
	Err error
}

type SessionResolver struct {
	source SessionSource
}

func NewSessionResolver(src SessionSource) *SessionResolver {
	return &SessionResolver{source: src}
}

// Resolve never fails: every answer is folded into an outcome. Only
// transport trouble (unavailable, deadline, cancellation) is transient; any
// other error means there is no usable session.
func (r *SessionResolver) Resolve(ctx context.Context) SessionOutcome {
	s, err := r.source.CurrentSession(ctx)
	switch {
	case err != nil && client.IsTransient(err):
		return SessionOutcome{Kind: SessionTransient, Err: err}
	case err != nil:
		return SessionOutcome{Kind: SessionUnauthenticated, Err: err}
	case s == nil || s.UserID == "":
		return SessionOutcome{Kind: SessionUnauthenticated}
	default:
		return SessionOutcome{Kind: SessionAuthenticated, Session: s}
	}
}

type ProfileKind int

const (
	ProfileNotFound ProfileKind = iota
	ProfileIncomplete
	ProfileComplete
	ProfileTransient
)

type ProfileOutcome struct {
	Kind    ProfileKind
	Profile *models.Profile
	Err     error
}

type ProfileResolver struct {
	source ProfileSource
}

func NewProfileResolver(src ProfileSource) *ProfileResolver {
	return &ProfileResolver{source: src}
}

// Resolve splits store answers two ways: "not found" means the user has to
// onboard, anything else that failed is transient.
func (r *ProfileResolver) Resolve(ctx context.Context, userID string) ProfileOutcome {
	p, err := r.source.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, client.ErrNotFound):
		return ProfileOutcome{Kind: ProfileNotFound}
	case err != nil:
		return ProfileOutcome{Kind: ProfileTransient, Err: err}
	case p == nil:
		return ProfileOutcome{Kind: ProfileNotFound}
	case p.OnboardingCompleted:
		return ProfileOutcome{Kind: ProfileComplete, Profile: p}
	default:
		return ProfileOutcome{Kind: ProfileIncomplete, Profile: p}
	}
}
