package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/client/gate"
)

// maxRedirectHops bounds one focus so flapping backend state cannot loop.
const maxRedirectHops = 3

// focus gives screen the focus: the gate decides, redirects are followed
// and the screen that stays is rendered. A decision superseded by a newer
// focus is dropped silently.
func (a *App) focus(ctx context.Context, screen gate.Screen) error {
	for hop := 0; ; hop++ {
		act, err := a.nav.Activate(ctx, screen)
		if errors.Is(err, gate.ErrStale) {
			return nil
		}
		if err != nil {
			return err
		}

		if !act.Redirect {
			a.render(act)
			return nil
		}

		if hop == maxRedirectHops {
			a.logger.Warn(ctx, "redirects did not settle", "from", screen, "to", act.Target)
			a.alert("Navigation", "Could not settle on a screen. Type 'refresh' to try again.")
			return nil
		}
		a.logger.Debug(ctx, "redirect", "from", screen, "to", act.Target)
		screen = act.Target
	}
}

// current is the focused screen. Before the first decision it is login.
func (a *App) current() gate.Screen {
	if s := a.nav.Current(); s != "" {
		return s
	}
	return gate.ScreenLogin
}

var screenTitles = map[gate.Screen]string{
	gate.ScreenLogin:          "Sign in",
	gate.ScreenSignup:         "Create account",
	gate.ScreenForgotPassword: "Forgot password",
	gate.ScreenOnboarding:     "Complete your profile",
	gate.ScreenHome:           "Home",
	gate.ScreenProfile:        "Profile",
}

func (a *App) render(act gate.Action) {
	a.println()
	a.println("== " + screenTitles[act.Target] + " ==")
	if act.Degraded() {
		a.alert("Offline", "Could not check your session right now. Type 'refresh' to try again.")
	}

	switch act.Target {
	case gate.ScreenLogin:
		a.println("Sign in with your e-mail and password.")
	case gate.ScreenSignup:
		a.println("Create an account to start tracking your meals.")
	case gate.ScreenForgotPassword:
		a.println("We will e-mail you a code to reset your password.")
	case gate.ScreenOnboarding:
		a.println(fmt.Sprintf("Hi %s! Tell us a bit about yourself to personalize your experience.", greetingName(act)))
	case gate.ScreenHome:
		a.println(fmt.Sprintf("Welcome, %s!", greetingName(act)))
		a.println("Take a photo of your meal or upload one to get started.")
	case gate.ScreenProfile:
		a.renderProfile(act)
	}

	a.println("Commands: " + strings.Join(a.commandNames(act.Target), ", "))
}

// greetingName falls back from the display name to the profile's full name
// and finally to "User".
func greetingName(act gate.Action) string {
	if act.Session != nil && strings.TrimSpace(act.Session.DisplayName) != "" {
		return act.Session.DisplayName
	}
	if act.Profile != nil && strings.TrimSpace(act.Profile.FullName) != "" {
		return act.Profile.FullName
	}
	return "User"
}

func (a *App) renderProfile(act gate.Action) {
	a.println("Name:      " + greetingName(act))
	if act.Session != nil {
		a.println("E-mail:    " + act.Session.Email)
	}
	if p := act.Profile; p != nil {
		a.println(fmt.Sprintf("Age:       %d", p.Age))
		a.println(fmt.Sprintf("Height:    %g cm", p.HeightCm))
		a.println(fmt.Sprintf("Weight:    %g kg", p.WeightKg))
		a.println("Allergies: " + p.Allergies)
	}
}
