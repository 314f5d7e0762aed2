// Package models defines client-side data models used by the nutrigate CLI.
package models

// Session identifies the signed-in user. It is owned by the identity
// service; the client only keeps the opaque token pair.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}

// TokenPair is what the client persists between runs.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether there is nothing to restore.
func (t TokenPair) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}
