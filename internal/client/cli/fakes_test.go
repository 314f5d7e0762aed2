package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/config"
	"github.com/dmitrijs2005/nutrigate/internal/client/gate"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

type fakeUser struct {
	session  models.Session
	password string
}

// fakeBackend plays identity service and profile store at once.
type fakeBackend struct {
	mu sync.Mutex

	users    map[string]*fakeUser
	current  *models.Session
	profiles map[string]*models.Profile

	lastEmail  string
	resetCodes map[string]string

	sessionErr error
	profileErr error
	signOutErr error
	pingErr    error

	calls  []string
	closed bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:      map[string]*fakeUser{},
		profiles:   map[string]*models.Profile{},
		resetCodes: map[string]string{},
	}
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) addUser(email, password, name string) *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.Session{UserID: fmt.Sprintf("u%d", len(f.users)+1), Email: email, DisplayName: name}
	f.users[email] = &fakeUser{session: s, password: password}
	return &s
}

func (f *fakeBackend) signInAs(s *models.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = s
}

func (f *fakeBackend) setProfile(p *models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = p
}

func (f *fakeBackend) Restore(context.Context) error { return nil }

func (f *fakeBackend) SignUp(_ context.Context, email, password, displayName string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignUp")
	if _, ok := f.users[email]; ok {
		return nil, &client.StatusError{Kind: client.ErrAlreadyExists, Message: "user already exists"}
	}
	s := models.Session{UserID: fmt.Sprintf("u%d", len(f.users)+1), Email: email, DisplayName: displayName}
	f.users[email] = &fakeUser{session: s, password: password}
	f.current = &s
	f.lastEmail = email
	return &s, nil
}

func (f *fakeBackend) SignIn(_ context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignIn")
	u, ok := f.users[email]
	if !ok || u.password != password {
		return nil, &client.StatusError{Kind: client.ErrUnauthorized, Message: "invalid login credentials"}
	}
	s := u.session
	f.current = &s
	f.lastEmail = email
	return &s, nil
}

func (f *fakeBackend) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignOut")
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.current = nil
	return nil
}

func (f *fakeBackend) CurrentSession(context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentSession")
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	if f.current == nil {
		return nil, nil
	}
	s := *f.current
	return &s, nil
}

func (f *fakeBackend) SendPasswordReset(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SendPasswordReset")
	if _, ok := f.users[email]; ok {
		f.resetCodes["c0de"] = email
	}
	return nil
}

func (f *fakeBackend) ResetPassword(_ context.Context, code, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResetPassword")
	email, ok := f.resetCodes[code]
	if !ok {
		return &client.StatusError{Kind: client.ErrInvalidArgument, Message: "reset code is invalid or expired"}
	}
	delete(f.resetCodes, code)
	f.users[email].password = newPassword
	return nil
}

func (f *fakeBackend) LastEmail(context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastEmail
}

func (f *fakeBackend) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeBackend) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeBackend) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetProfile")
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, client.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeBackend) CompleteOnboarding(_ context.Context, p *models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompleteOnboarding")
	cp := *p
	cp.OnboardingCompleted = true
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	f.profiles[cp.UserID] = &cp
	return &cp, nil
}

type fakeMedia struct {
	uploads [][]byte
	types   []string
	err     error
}

func (m *fakeMedia) Upload(_ context.Context, data []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.uploads = append(m.uploads, data)
	m.types = append(m.types, contentType)
	return fmt.Sprintf("users/u1/uploads/%d", len(m.uploads)), nil
}

type fakePicker struct {
	path string
	err  error
}

func (p *fakePicker) Capture(context.Context) (string, error) { return p.path, p.err }
func (p *fakePicker) Pick(context.Context) (string, error)    { return p.path, p.err }

type harness struct {
	app     *App
	backend *fakeBackend
	media   *fakeMedia
	picker  *fakePicker
	out     *bytes.Buffer
}

// newHarness builds an App over fakes reading input as typed lines.
func newHarness(t *testing.T, b *fakeBackend, input string) *harness {
	t.Helper()
	pipedInput(t)

	h := &harness{backend: b, media: &fakeMedia{}, picker: &fakePicker{}, out: &bytes.Buffer{}}
	h.app = newApp(&config.Config{CaptureDir: t.TempDir()}, appDeps{
		identity: b,
		profiles: b,
		media:    h.media,
		picker:   h.picker,
		logger:   logging.Nop{},
		in:       strings.NewReader(input),
		out:      h.out,
	})
	return h
}

func (h *harness) screen() gate.Screen {
	return h.app.nav.Current()
}

func completeProfile(userID string) *models.Profile {
	return &models.Profile{
		UserID: userID, FullName: "Ann Lee", Age: 34, HeightCm: 170, WeightKg: 65,
		Allergies: "None", OnboardingCompleted: true,
	}
}
