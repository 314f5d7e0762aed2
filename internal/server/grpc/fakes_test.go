package grpc

import (
	"context"

	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
	"github.com/dmitrijs2005/nutrigate/internal/server/services"
)

const testSecret = "secret"

type fakeIdentity struct {
	user *models.User
	pair *services.TokenPair
	err  error

	signUpArgs  []string
	signOutArg  string
	whoAmIArg   string
	refreshArg  string
	resetEmail  string
	resetCode   string
	newPassword string
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password, displayName string) (*models.User, *services.TokenPair, error) {
	f.signUpArgs = []string{email, password, displayName}
	return f.user, f.pair, f.err
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	if f.user == nil || email != f.user.Email || password != "secret1" {
		return nil, nil, common.ErrInvalidCredentials
	}
	return f.user, f.pair, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, refreshToken string) error {
	f.signOutArg = refreshToken
	return f.err
}

func (f *fakeIdentity) WhoAmI(_ context.Context, userID string) (*models.User, error) {
	f.whoAmIArg = userID
	return f.user, f.err
}

func (f *fakeIdentity) RefreshToken(_ context.Context, refreshToken string) (*services.TokenPair, error) {
	f.refreshArg = refreshToken
	return f.pair, f.err
}

func (f *fakeIdentity) SendPasswordReset(_ context.Context, email string) error {
	f.resetEmail = email
	return f.err
}

func (f *fakeIdentity) ResetPassword(_ context.Context, code, newPassword string) error {
	f.resetCode, f.newPassword = code, newPassword
	return f.err
}

type fakeProfiles struct {
	rows map[string]*models.Profile
	err  error
}

func (f *fakeProfiles) Get(_ context.Context, callerID, userID string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if userID != "" && userID != callerID {
		return nil, common.ErrorForbidden
	}
	p, ok := f.rows[callerID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, callerID string, p *models.Profile) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.UserID = callerID
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if f.rows == nil {
		f.rows = map[string]*models.Profile{}
	}
	f.rows[callerID] = p
	return p, nil
}

type fakeMedia struct {
	userID, contentType string
	err                 error
}

func (f *fakeMedia) GetUploadURL(_ context.Context, userID, contentType string) (string, string, error) {
	f.userID, f.contentType = userID, contentType
	if f.err != nil {
		return "", "", f.err
	}
	return "users/" + userID + "/uploads/k", "https://s3/put", nil
}

type testDeps struct {
	identity *fakeIdentity
	profiles *fakeProfiles
	media    *fakeMedia
}

func newTestServer() (*GRPCServer, *testDeps) {
	d := &testDeps{identity: &fakeIdentity{}, profiles: &fakeProfiles{}, media: &fakeMedia{}}
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, nil, d.identity, d.profiles, d.media, testSecret), d
}
