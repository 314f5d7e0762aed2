package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/gate"
	"github.com/dmitrijs2005/nutrigate/internal/client/media"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/common"
)

var errNoSession = errors.New("no session for this screen")

// showError turns err into the alert the user sees. Server rejections are
// shown with the server's own message; transport trouble gets a generic one.
func (a *App) showError(ctx context.Context, err error) {
	var ve *ValidationError
	var se *client.StatusError
	switch {
	case errors.As(err, &ve):
		a.alert(ve.Title, ve.Message)
	case errors.Is(err, models.ErrIncompleteProfile):
		a.alert("Missing Information", "Please fill in all fields to complete your profile.")
	case client.IsTransient(err):
		a.logger.Warn(ctx, "request failed", "error", err)
		a.alert("Error", "An unexpected error occurred. Please try again.")
	case errors.As(err, &se):
		a.alert("Error", se.Error())
	default:
		a.logger.Error(ctx, "request failed", "error", err)
		a.alert("Error", err.Error())
	}
}

// afterChange re-runs the gate for the focused screen once an action has
// changed session or profile state.
func (a *App) afterChange(ctx context.Context) error {
	return a.focus(ctx, a.current())
}

func (a *App) submitLogin(ctx context.Context) error {
	last := a.identity.LastEmail(ctx)
	p := "Email"
	if last != "" {
		p = fmt.Sprintf("Email [%s]", last)
	}
	email, err := a.prompt(p)
	if err != nil {
		return err
	}
	if email == "" {
		email = last
	}
	pw, err := a.secret("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	f := loginForm{Email: email, Password: string(pw)}
	if err := check(f, "Please enter both email and password."); err != nil {
		a.showError(ctx, err)
		return err
	}

	if _, err := a.identity.SignIn(ctx, f.Email, f.Password); err != nil {
		a.showError(ctx, err)
		return err
	}
	return a.afterChange(ctx)
}

func (a *App) submitSignup(ctx context.Context) error {
	name, err := a.prompt("Full name")
	if err != nil {
		return err
	}
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	pw, err := a.secret("Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := a.secret("Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	f := signupForm{DisplayName: name, Email: email, Password: string(pw), Confirm: string(confirm)}
	if err := check(f, "Please fill in all fields to create your account."); err != nil {
		a.showError(ctx, err)
		return err
	}

	if _, err := a.identity.SignUp(ctx, f.Email, f.Password, f.DisplayName); err != nil {
		a.showError(ctx, err)
		return err
	}
	return a.afterChange(ctx)
}

func (a *App) submitForgot(ctx context.Context) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}

	f := forgotForm{Email: email}
	if err := check(f, "Please enter your email address."); err != nil {
		a.showError(ctx, err)
		return err
	}

	if err := a.identity.SendPasswordReset(ctx, f.Email); err != nil {
		a.showError(ctx, err)
		return err
	}
	a.alert("Reset Email Sent", "If that email exists in our system, a reset code is on its way.")
	a.println("Type 'confirm' once you have the code.")
	return a.afterChange(ctx)
}

func (a *App) confirmReset(ctx context.Context) error {
	code, err := a.prompt("Reset code")
	if err != nil {
		return err
	}
	pw, err := a.secret("New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := a.secret("Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	f := resetForm{Code: code, NewPassword: string(pw), Confirm: string(confirm)}
	if err := check(f, "Please enter the code and your new password."); err != nil {
		a.showError(ctx, err)
		return err
	}

	if err := a.identity.ResetPassword(ctx, f.Code, f.NewPassword); err != nil {
		a.showError(ctx, err)
		return err
	}
	a.alert("Password Updated", "You can now sign in with your new password.")
	return a.focus(ctx, gate.ScreenLogin)
}

func (a *App) submitOnboarding(ctx context.Context) error {
	act := a.nav.Last()
	if act.Session == nil {
		a.alert("Error", "User not found. Please log in again.")
		return errNoSession
	}

	var f onboardingForm
	var err error
	if f.Age, err = a.prompt("Age (years)"); err != nil {
		return err
	}
	if f.Height, err = a.prompt("Height (cm)"); err != nil {
		return err
	}
	if f.Weight, err = a.prompt("Weight (kg)"); err != nil {
		return err
	}
	if f.Allergies, err = a.prompt("Allergies or dietary restrictions (type None if you have none)"); err != nil {
		return err
	}

	v, err := f.parse()
	if err != nil {
		a.showError(ctx, err)
		return err
	}

	fullName := act.Session.DisplayName
	if act.Profile != nil && strings.TrimSpace(act.Profile.FullName) != "" {
		fullName = act.Profile.FullName
	}

	_, err = a.profiles.CompleteOnboarding(ctx, &models.Profile{
		UserID:    act.Session.UserID,
		FullName:  fullName,
		Age:       v.Age,
		HeightCm:  v.HeightCm,
		WeightKg:  v.WeightKg,
		Allergies: v.Allergies,
	})
	if err != nil {
		a.showError(ctx, err)
		return err
	}
	return a.afterChange(ctx)
}

func (a *App) capture(ctx context.Context) error {
	return a.addImage(ctx, a.picker.Capture, "Failed to capture image. Please try again.")
}

func (a *App) upload(ctx context.Context) error {
	return a.addImage(ctx, a.picker.Pick, "Failed to select image. Please try again.")
}

// addImage obtains an image, previews it and uploads it if the user agrees.
func (a *App) addImage(ctx context.Context, pick func(context.Context) (string, error), failMsg string) error {
	path, err := pick(ctx)
	if errors.Is(err, media.ErrCancelled) {
		a.println("Cancelled.")
		return nil
	}
	if err != nil {
		a.logger.Warn(ctx, "no image", "error", err)
		a.alert("Error", failMsg)
		return err
	}

	img, err := media.Load(path)
	if err != nil {
		a.alert("Error", err.Error())
		return err
	}
	a.println("Selected: " + img.Summary())

	ok, err := a.confirm("Upload this image?")
	if err != nil || !ok {
		return err
	}

	key, err := a.media.Upload(ctx, img.Data, img.ContentType)
	if err != nil {
		a.logger.Error(ctx, "upload failed", "error", err)
		a.alert("Error", "Failed to upload image. Please try again.")
		return err
	}
	a.alert("Upload Complete", "Your image was stored as "+key)
	return nil
}

// logout signs out after confirmation. On failure the user stays where
// they are.
func (a *App) logout(ctx context.Context) error {
	ok, err := a.confirm("Are you sure you want to logout?")
	if err != nil || !ok {
		return err
	}

	if err := a.identity.SignOut(ctx); err != nil {
		a.logger.Error(ctx, "sign out failed", "error", err)
		a.alert("Error", "Failed to sign out. Please try again.")
		return err
	}
	return a.afterChange(ctx)
}
