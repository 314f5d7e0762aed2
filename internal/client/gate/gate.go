package gate

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

// Action is the outcome of a decision. Screens render from it and never
// look at session state themselves.
type Action struct {
	// Redirect is false for Stay.
	Redirect bool
	// Target is the screen to show: the requested one on Stay.
	Target  Screen
	State   State
	Session *models.Session
	Profile *models.Profile
}

// Degraded reports a Stay that was made without a definite state.
func (a Action) Degraded() bool {
	return a.State == StateUnknown
}

func (a Action) String() string {
	if a.Redirect {
		return fmt.Sprintf("redirect(%s) [%s]", a.Target, a.State)
	}
	return fmt.Sprintf("stay(%s) [%s]", a.Target, a.State)
}

// Route is the pure decision table: stay on a screen valid for state,
// otherwise redirect to the home screen of state.
func Route(screen Screen, state State) Action {
	if state == StateUnknown || screen.ValidFor(state) {
		return Action{Target: screen, State: state}
	}
	return Action{Redirect: true, Target: HomeOf(state), State: state}
}

type Gate struct {
	sessions *SessionResolver
	profiles *ProfileResolver
	logger   logging.Logger
}

func New(sessions SessionSource, profiles ProfileSource, l logging.Logger) *Gate {
	return &Gate{
		sessions: NewSessionResolver(sessions),
		profiles: NewProfileResolver(profiles),
		logger:   l.With("module", "gate"),
	}
}

// Decide resolves the session and, for a signed-in user, the profile, then
// routes screen. It holds no state between calls, so repeated calls with
// unchanged backing data return the same Action. The only error is
// ErrUnknownScreen.
func (g *Gate) Decide(ctx context.Context, screen Screen) (Action, error) {
	if !screen.Known() {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}

	so := g.sessions.Resolve(ctx)
	switch so.Kind {
	case SessionTransient:
		g.logger.Warn(ctx, "session unresolved, staying", "screen", screen, "error", so.Err)
		return Route(screen, StateUnknown), nil
	case SessionUnauthenticated:
		if so.Err != nil {
			g.logger.Debug(ctx, "session rejected", "error", so.Err)
		}
		return g.done(ctx, screen, Route(screen, StateUnauthenticated)), nil
	}

	po := g.profiles.Resolve(ctx, so.Session.UserID)
	var state State
	switch po.Kind {
	case ProfileTransient:
		g.logger.Warn(ctx, "profile unresolved, staying", "screen", screen, "error", po.Err)
		a := Route(screen, StateUnknown)
		a.Session = so.Session
		return a, nil
	case ProfileNotFound:
		state = StateNoProfile
	case ProfileIncomplete:
		state = StateIncomplete
	default:
		state = StateComplete
	}

	a := Route(screen, state)
	a.Session = so.Session
	a.Profile = po.Profile
	return g.done(ctx, screen, a), nil
}

func (g *Gate) done(ctx context.Context, screen Screen, a Action) Action {
	g.logger.Debug(ctx, "decision", "screen", screen, "action", a.String())
	return a
}
