package cli

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is shown to the user as a blocking alert. It never
// reaches a collaborator.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return strings.ToLower(f.Name)
	})
	return v
}

type loginForm struct {
	Email    string `validate:"required" label:"email"`
	Password string `validate:"required" label:"password"`
}

type signupForm struct {
	DisplayName string `validate:"required" label:"name"`
	Email       string `validate:"required,email" label:"email"`
	Password    string `validate:"required,min=6" label:"password"`
	Confirm     string `validate:"required,eqfield=Password" label:"confirmation"`
}

type forgotForm struct {
	Email string `validate:"required,email" label:"email"`
}

type resetForm struct {
	Code        string `validate:"required" label:"reset code"`
	NewPassword string `validate:"required,min=6" label:"password"`
	Confirm     string `validate:"required,eqfield=NewPassword" label:"confirmation"`
}

// onboardingForm holds the raw answers; onboardingValues the parsed ones.
type onboardingForm struct {
	Age       string `validate:"required" label:"age"`
	Height    string `validate:"required" label:"height"`
	Weight    string `validate:"required" label:"weight"`
	Allergies string `validate:"required" label:"allergies"`
}

type onboardingValues struct {
	Age       int     `validate:"gt=0,lt=150" label:"age"`
	HeightCm  float64 `validate:"gt=0,lt=300" label:"height"`
	WeightKg  float64 `validate:"gt=0,lt=700" label:"weight"`
	Allergies string  `validate:"required" label:"allergies"`
}

// check validates form. A missing field wins over every other problem and
// is reported with the form's own missing message.
func check(form any, missing string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return &ValidationError{Title: "Missing Information", Message: missing}
		}
	}
	fe := ve[0]
	return &ValidationError{Title: fieldTitle(fe), Message: fieldError(fe)}
}

func fieldTitle(fe validator.FieldError) string {
	switch fe.Tag() {
	case "eqfield":
		return "Password Mismatch"
	case "min":
		if strings.Contains(fe.Field(), "password") {
			return "Weak Password"
		}
	}
	return "Invalid Input"
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please enter a valid email address."
	case "eqfield":
		return "Your passwords do not match. Please try again."
	case "min":
		return fmt.Sprintf("Your %s should be at least %s characters long.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// parse converts the raw onboarding answers. "None" is a valid allergies
// answer; numbers accept a decimal comma.
func (f onboardingForm) parse() (onboardingValues, error) {
	if err := check(f, "Please fill in all fields to complete your profile."); err != nil {
		return onboardingValues{}, err
	}

	age, err := strconv.Atoi(f.Age)
	if err != nil {
		return onboardingValues{}, &ValidationError{Title: "Invalid Input", Message: "age must be a whole number"}
	}
	height, err := parseNumber(f.Height)
	if err != nil {
		return onboardingValues{}, &ValidationError{Title: "Invalid Input", Message: "height must be a number"}
	}
	weight, err := parseNumber(f.Weight)
	if err != nil {
		return onboardingValues{}, &ValidationError{Title: "Invalid Input", Message: "weight must be a number"}
	}

	v := onboardingValues{Age: age, HeightCm: height, WeightKg: weight, Allergies: f.Allergies}
	if err := check(v, "Please fill in all fields to complete your profile."); err != nil {
		return onboardingValues{}, err
	}
	return v, nil
}

// parseNumber rejects Inf and NaN, which ParseFloat accepts.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
