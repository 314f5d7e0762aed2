// Package common defines shared constants and sentinel errors used across
// client and server layers of nutrigate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")

	// Credentials rejected by sign-in.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Password reset codes.
	ErrResetCodeInvalid = errors.New("reset code is invalid or expired")

	// Profile invariant: a completed profile must carry every health field.
	ErrIncompleteProfile = errors.New("completed profile must have age, height, weight and allergies")
)
