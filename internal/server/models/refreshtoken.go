package models

import "time"

// RefreshToken is a stored refresh token. Only the hash of the token handed
// to the client is kept.
type RefreshToken struct {
	ID        int64
	UserID    string
	TokenHash string
	Expires   time.Time
	CreatedAt time.Time
}
