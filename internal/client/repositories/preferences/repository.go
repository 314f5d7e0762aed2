// Package preferences stores small client-side settings (for example the
// last e-mail used to sign in) in the local SQLite database.
package preferences

import "context"

// Well-known keys.
const (
	KeyLastEmail = "last_email"
)

type Repository interface {
	// Get returns "" and no error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
