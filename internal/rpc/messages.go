package rpc

import "time"

type Empty struct{}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by SignUp and SignIn.
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	Session      Session `json:"session"`
}

type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SendPasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type GetProfileRequest struct {
	UserID string `json:"user_id"`
}

// Profile is the onboarding record. Zero numeric values and an empty
// Allergies string mean the field was never provided.
type Profile struct {
	UserID              string    `json:"user_id"`
	FullName            string    `json:"full_name,omitempty"`
	Age                 int32     `json:"age,omitempty"`
	HeightCm            float64   `json:"height_cm,omitempty"`
	WeightKg            float64   `json:"weight_kg,omitempty"`
	Allergies           string    `json:"allergies,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	UpdatedAt           time.Time `json:"updated_at,omitzero"`
}

type GetUploadURLRequest struct {
	ContentType string `json:"content_type"`
}

type GetUploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
