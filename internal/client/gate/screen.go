package gate

import (
	"errors"
	"fmt"
)

var ErrUnknownScreen = errors.New("unknown screen")

type Screen string

const (
	ScreenLogin          Screen = "login"
	ScreenSignup         Screen = "signup"
	ScreenForgotPassword Screen = "forgot-password"
	ScreenOnboarding     Screen = "onboarding"
	ScreenHome           Screen = "home"
	ScreenProfile        Screen = "profile"
)

// Screens lists every screen in menu order.
var Screens = []Screen{
	ScreenLogin, ScreenSignup, ScreenForgotPassword,
	ScreenOnboarding, ScreenHome, ScreenProfile,
}

// State is the resolved session/profile state a decision is made for.
type State int

const (
	// StateUnknown tags a decision made without a definite answer
	// (a resolver reported a transient failure).
	StateUnknown State = iota
	StateUnauthenticated
	StateNoProfile
	StateIncomplete
	StateComplete
)

// States lists the definite states.
var States = []State{StateUnauthenticated, StateNoProfile, StateIncomplete, StateComplete}

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateNoProfile:
		return "authenticated-no-profile"
	case StateIncomplete:
		return "authenticated-incomplete"
	case StateComplete:
		return "authenticated-complete"
	default:
		return "unknown"
	}
}

var validStates = map[Screen][]State{
	ScreenLogin:          {StateUnauthenticated},
	ScreenSignup:         {StateUnauthenticated},
	ScreenForgotPassword: {StateUnauthenticated},
	ScreenOnboarding:     {StateNoProfile, StateIncomplete},
	ScreenHome:           {StateComplete},
	ScreenProfile:        {StateComplete},
}

func ParseScreen(name string) (Screen, error) {
	s := Screen(name)
	if !s.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScreen, name)
	}
	return s, nil
}

func (s Screen) Known() bool {
	_, ok := validStates[s]
	return ok
}

// ValidFor reports whether the screen may be shown in state.
func (s Screen) ValidFor(state State) bool {
	for _, v := range validStates[s] {
		if v == state {
			return true
		}
	}
	return false
}

// HomeOf is where a user in state belongs.
func HomeOf(state State) Screen {
	switch state {
	case StateUnauthenticated:
		return ScreenLogin
	case StateNoProfile, StateIncomplete:
		return ScreenOnboarding
	case StateComplete:
		return ScreenHome
	default:
		return ""
	}
}
