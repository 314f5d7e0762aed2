// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutrigate/internal/server/models"
)

// Repository stores refresh tokens by their hash. The plaintext token never
// reaches the database.
type Repository interface {
	// Create stores tokenHash for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error

	// Consume deletes the row for tokenHash and returns it, so a token can be
	// exchanged at most once. Absent tokens yield common.ErrorNotFound.
	Consume(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, tokenHash string) error

	// DeleteAllForUser revokes every session of userID.
	DeleteAllForUser(ctx context.Context, userID string) error
}
