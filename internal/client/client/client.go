package client

import (
	"context"

	"github.com/dmitrijs2005/nutrigate/internal/client/models"
)

// Client is the transport-level contract with the nutrigate backend.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	SignUp(ctx context.Context, email, password, displayName string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	// WhoAmI returns (nil, nil) when no session is held.
	WhoAmI(ctx context.Context) (*models.Session, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, newPassword string) error

	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) (*models.Profile, error)

	GetUploadURL(ctx context.Context, contentType string) (key string, url string, err error)

	SetTokens(pair models.TokenPair)
	Tokens() models.TokenPair
}
