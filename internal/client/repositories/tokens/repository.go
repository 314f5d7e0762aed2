// Package tokens persists the session token pair so a restarted client
// resumes the previous session.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/nutrigate/internal/client/models"
)

type Repository interface {
	// Load returns an empty pair when nothing is stored.
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}
