package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/dbx"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
	"github.com/dmitrijs2005/nutrigate/internal/server/config"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
	profilesrepo "github.com/dmitrijs2005/nutrigate/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/dmitrijs2005/nutrigate/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/nutrigate/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		ResetCodeTTL:                 15 * time.Minute,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "meals",
		PresignExpiry:                15 * time.Minute,
	}
}

// fakeUsersRepo keeps users in memory keyed by id.
type fakeUsersRepo struct {
	byID      map[string]*models.User
	createErr error
	getErr    error
	updateErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = "u" + string(rune('0'+len(f.byID)+1))
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePassword(_ context.Context, id string, hash []byte) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

// fakeRefreshRepo keeps token hashes in memory.
type fakeRefreshRepo struct {
	rows       map[string]*models.RefreshToken
	createErr  error
	consumeErr error
	deleted    []string
	revoked    []string
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(_ context.Context, userID, hash string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[hash] = &models.RefreshToken{UserID: userID, TokenHash: hash, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Consume(_ context.Context, hash string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	rt, ok := f.rows[hash]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, hash)
	return rt, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, hash string) error {
	f.deleted = append(f.deleted, hash)
	delete(f.rows, hash)
	return nil
}

func (f *fakeRefreshRepo) DeleteAllForUser(_ context.Context, userID string) error {
	f.revoked = append(f.revoked, userID)
	for h, rt := range f.rows {
		if rt.UserID == userID {
			delete(f.rows, h)
		}
	}
	return nil
}

type fakeProfilesRepo struct {
	rows      map[string]*models.Profile
	getErr    error
	upsertErr error
}

func newFakeProfilesRepo() *fakeProfilesRepo {
	return &fakeProfilesRepo{rows: map[string]*models.Profile{}}
}

func (f *fakeProfilesRepo) Get(_ context.Context, userID string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfilesRepo) Upsert(_ context.Context, p *models.Profile) (*models.Profile, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	p.UpdatedAt = time.Now()
	cp := *p
	f.rows[p.UserID] = &cp
	return p, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	p *fakeProfilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), r: newFakeRefreshRepo(), p: newFakeProfilesRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profilesrepo.Repository           { return m.p }

type fakeResetStore struct {
	codes    map[string]string
	issueErr error
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{codes: map[string]string{}}
}

func (f *fakeResetStore) Issue(_ context.Context, userID string, _ time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	code := "code-" + userID
	f.codes[code] = userID
	return code, nil
}

func (f *fakeResetStore) Consume(_ context.Context, code string) (string, error) {
	userID, ok := f.codes[code]
	if !ok {
		return "", common.ErrResetCodeInvalid
	}
	delete(f.codes, code)
	return userID, nil
}

type sentMail struct{ to, code string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendResetCode(_ context.Context, to, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, code: code})
	return nil
}

type identityHarness struct {
	svc    *IdentityService
	rm     *fakeRepoManager
	store  *fakeResetStore
	mailer *fakeMailer
	mock   sqlmock.Sqlmock
}

func newIdentityHarness(t *testing.T) *identityHarness {
	t.Helper()
	db, mock := newSQLMockDB(t)
	h := &identityHarness{
		rm:     newFakeRepoManager(),
		store:  newFakeResetStore(),
		mailer: &fakeMailer{},
		mock:   mock,
	}
	h.svc = NewIdentityService(db, h.rm, h.store, h.mailer, logging.Nop{}, testConfig())
	return h
}

// seedUser stores a user whose password is password.
func (h *identityHarness) seedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	u, err := h.rm.u.Create(context.Background(), &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}
