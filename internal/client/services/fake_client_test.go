package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/stretchr/testify/require"
)

// fakeClient records calls and returns preset results.
type fakeClient struct {
	mu     sync.Mutex
	tokens models.TokenPair

	SignUpRet  *models.Session
	SignUpErr  error
	SignInRet  *models.Session
	SignInErr  error
	SignOutErr error
	WhoAmIRet  *models.Session
	WhoAmIErr  error
	ResetErr   error
	PingErr    error
	CloseErr   error

	ProfileRet *models.Profile
	ProfileErr error
	UpsertErr  error

	UploadKey string
	UploadURL string
	UploadErr error

	LastSignUp      [3]string
	LastSignIn      [2]string
	LastResetEmail  string
	LastResetCode   string
	LastNewPassword string
	LastUpsert      *models.Profile
	LastContentType string
	SignOutCalls    int
	Closed          bool
}

func (f *fakeClient) Close() error               { f.Closed = true; return f.CloseErr }
func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) SignUp(_ context.Context, email, password, displayName string) (*models.Session, error) {
	f.LastSignUp = [3]string{email, password, displayName}
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeClient) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	f.LastSignIn = [2]string{email, password}
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) SignOut(context.Context) error {
	f.SignOutCalls++
	if f.SignOutErr == nil {
		f.SetTokens(models.TokenPair{})
	}
	return f.SignOutErr
}

func (f *fakeClient) WhoAmI(context.Context) (*models.Session, error) { return f.WhoAmIRet, f.WhoAmIErr }

func (f *fakeClient) SendPasswordReset(_ context.Context, email string) error {
	f.LastResetEmail = email
	return f.ResetErr
}

func (f *fakeClient) ResetPassword(_ context.Context, code, newPassword string) error {
	f.LastResetCode, f.LastNewPassword = code, newPassword
	return f.ResetErr
}

func (f *fakeClient) GetProfile(context.Context, string) (*models.Profile, error) {
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeClient) UpsertProfile(_ context.Context, p *models.Profile) (*models.Profile, error) {
	f.LastUpsert = p
	if f.UpsertErr != nil {
		return nil, f.UpsertErr
	}
	out := *p
	return &out, nil
}

func (f *fakeClient) GetUploadURL(_ context.Context, contentType string) (string, string, error) {
	f.LastContentType = contentType
	return f.UploadKey, f.UploadURL, f.UploadErr
}

func (f *fakeClient) SetTokens(p models.TokenPair) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = p
}

func (f *fakeClient) Tokens() models.TokenPair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens
}

var _ client.Client = (*fakeClient)(nil)

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return client.NewRepositories(db)
}
