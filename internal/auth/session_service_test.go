package auth

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lexikon-app/lexikon/internal/audit"
	"github.com/lexikon-app/lexikon/internal/mail"
	"github.com/lexikon-app/lexikon/internal/render"
	"github.com/lexikon-app/lexikon/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	if err := render.Initialize(nil, ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]model.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = model.GenerateID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Save(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uint]model.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == 0 {
		session.ID = model.GenerateID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, sessionID uint) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &session, nil
}

func (r *fakeSessionRepo) ListByUser(ctx context.Context, userID uint) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sessions []*model.Session
	for _, session := range r.sessions {
		if session.UserID == userID {
			session := session
			sessions = append(sessions, &session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, sessionID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false, nil
	}
	delete(r.sessions, sessionID)
	return true, nil
}

func (r *fakeSessionRepo) save(session model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

type fakeMailSender struct {
	mu       sync.Mutex
	messages []*mail.Message
}

func (s *fakeMailSender) Send(message *mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return nil
}

// lastCode extracts the OTP code from the most recent message subject.
func (s *fakeMailSender) lastCode(t *testing.T) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	subject := s.messages[len(s.messages)-1].Subject
	code, _, found := strings.Cut(subject, " ")
	require.True(t, found)
	return code
}

func (s *fakeMailSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type fakeAuditor struct {
	mu      sync.Mutex
	entries []*model.AuditLog
}

func (a *fakeAuditor) Record(ctx context.Context, entry *model.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *fakeAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	actions := make([]string, 0, len(a.entries))
	for _, entry := range a.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type testEnv struct {
	service     *AuthService
	userRepo    *fakeUserRepo
	sessionRepo *fakeSessionRepo
	mailSender  *fakeMailSender
	auditor     *fakeAuditor
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		userRepo:    newFakeUserRepo(),
		sessionRepo: newFakeSessionRepo(),
		mailSender:  &fakeMailSender{},
		auditor:     &fakeAuditor{},
	}
	env.service = NewAuthService(env.userRepo, env.sessionRepo, env.mailSender, env.auditor, time.Hour)
	return env
}

func (env *testEnv) createUser(t *testing.T, email, password string, verified bool) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{
		Email:      email,
		Password:   string(hash),
		IsVerified: verified,
	}
	require.NoError(t, env.userRepo.Create(context.Background(), user))
	return user
}

// login runs the full two-stage flow and returns the minted credential.
func (env *testEnv) login(t *testing.T, email, password string) *SessionCredential {
	result, err := env.service.InitiateLogin(context.Background(), LoginInput{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	require.True(t, result.MFARequired)

	cred, err := env.service.VerifyMFA(context.Background(), VerifyMFAInput{
		UserID: result.UserID,
		Code:   env.mailSender.lastCode(t),
	})
	require.NoError(t, err)
	return cred
}

func TestInitiateLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Zero(t, env.mailSender.count())
	assert.Equal(t, []string{audit.ActionLoginFailed}, env.auditor.actions())
}

func TestInitiateLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", "correct horse", true)

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "battery staple",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Zero(t, env.mailSender.count())
}

func TestInitiateLoginUnverifiedEmail(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "bob@example.com", "secret123", false)

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{
		Email:    "bob@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
	assert.Zero(t, env.mailSender.count(), "no code may be sent to an unverified address")

	stored, err := env.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.OneTimePassword)
}

func TestInitiateLoginIssuesChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)

	result, err := env.service.InitiateLogin(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, result.MFARequired)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, 1, env.mailSender.count())

	stored, err := env.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OneTimePassword)
	require.NotNil(t, stored.OTPExpiration)
	assert.NotContains(t, *stored.OneTimePassword, env.mailSender.lastCode(t), "only the hash may be persisted")
}

func TestReloginOverwritesChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)

	input := LoginInput{Email: "alice@example.com", Password: "secret123"}
	_, err := env.service.InitiateLogin(context.Background(), input)
	require.NoError(t, err)
	firstCode := env.mailSender.lastCode(t)

	// reissue until the code differs; identical codes are possible but rare
	secondCode := firstCode
	for attempts := 0; secondCode == firstCode && attempts < 10; attempts++ {
		_, err = env.service.InitiateLogin(context.Background(), input)
		require.NoError(t, err)
		secondCode = env.mailSender.lastCode(t)
	}
	require.NotEqual(t, firstCode, secondCode)

	_, err = env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: firstCode})
	assert.ErrorIs(t, err, ErrInvalidCode, "the first code must die with the reissue")

	cred, err := env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: secondCode})
	require.NoError(t, err)
	assert.NotNil(t, cred.Session)
}

func TestVerifyMFAWithoutChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)

	_, err := env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: "123456"})
	assert.ErrorIs(t, err, ErrNoChallengePending)
}

func TestVerifyMFAUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: 42, Code: "123456"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyMFAWrongCodeKeepsChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	code := env.mailSender.lastCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: wrong})
	assert.ErrorIs(t, err, ErrInvalidCode)

	// the pending challenge survives a wrong guess
	cred, err := env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: code})
	require.NoError(t, err)
	assert.NotNil(t, cred.Session)
}

func TestVerifyMFAExpiredClearsChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	code := env.mailSender.lastCode(t)

	stored, err := env.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	stored.OTPExpiration = &past
	require.NoError(t, env.userRepo.Save(context.Background(), stored))

	_, err = env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: code})
	assert.ErrorIs(t, err, ErrChallengeExpired)

	// the expired challenge was cleared, so even the right code is now useless
	_, err = env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: code})
	assert.ErrorIs(t, err, ErrNoChallengePending)
}

func TestVerifyMFAConsumesChallenge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	code := env.mailSender.lastCode(t)

	_, err = env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: code})
	require.NoError(t, err)

	_, err = env.service.VerifyMFA(context.Background(), VerifyMFAInput{UserID: user.ID, Code: code})
	assert.ErrorIs(t, err, ErrNoChallengePending, "a code is good exactly once")
}

func TestValidateSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	authCtx, err := env.service.ValidateSession(context.Background(), cred.CookieValue)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authCtx.User.ID)
	assert.Equal(t, cred.Session.ID, authCtx.Session.ID)
}

func TestValidateSessionMalformedCookie(t *testing.T) {
	env := newTestEnv(t)

	for _, cookie := range []string{"", "noseparator", ":", "12:", ":abcd", "notanumber:abcd"} {
		_, err := env.service.ValidateSession(context.Background(), cookie)
		assert.ErrorIs(t, err, ErrMalformedCookie, "cookie %q", cookie)
	}
}

func TestValidateSessionTamperedToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	tampered := FormatCookie(cred.Session.ID, strings.Repeat("ff", 64))
	_, err := env.service.ValidateSession(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrTokenMismatch)
}

func TestValidateSessionExpired(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	expired := *cred.Session
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	env.sessionRepo.save(expired)

	_, err := env.service.ValidateSession(context.Background(), cred.CookieValue)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestDestroySession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	require.NoError(t, env.service.DestroySession(context.Background(), cred.CookieValue, "1.2.3.4", "ua"))

	_, err := env.service.ValidateSession(context.Background(), cred.CookieValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Contains(t, env.auditor.actions(), audit.ActionLogout)
}

func TestListSessionsMarksCurrent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	credA := env.login(t, user.Email, "secret123")
	credB := env.login(t, user.Email, "secret123")

	summaries, err := env.service.ListSessions(context.Background(), credA.CookieValue)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	var current []uint
	for _, summary := range summaries {
		if summary.IsCurrent {
			current = append(current, summary.ID)
		}
	}
	require.Len(t, current, 1, "exactly one session may be current")
	assert.Equal(t, credA.Session.ID, current[0])
	assert.NotEqual(t, credA.Session.ID, credB.Session.ID)
}

func TestRevokeOwnOtherSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	credA := env.login(t, user.Email, "secret123")
	credB := env.login(t, user.Email, "secret123")

	revokedCurrent, err := env.service.RevokeSession(context.Background(), credA.CookieValue, credB.Session.ID)
	require.NoError(t, err)
	assert.False(t, revokedCurrent)

	_, err = env.service.ValidateSession(context.Background(), credB.CookieValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// the revoker's own session is untouched
	_, err = env.service.ValidateSession(context.Background(), credA.CookieValue)
	assert.NoError(t, err)
	assert.Contains(t, env.auditor.actions(), audit.ActionSessionRevoked)
}

func TestRevokeCurrentSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	revokedCurrent, err := env.service.RevokeSession(context.Background(), cred.CookieValue, cred.Session.ID)
	require.NoError(t, err)
	assert.True(t, revokedCurrent)
}

func TestRevokeSessionOfAnotherUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice@example.com", "secret123", true)
	bob := env.createUser(t, "bob@example.com", "hunter22", true)
	aliceCred := env.login(t, alice.Email, "secret123")
	bobCred := env.login(t, bob.Email, "hunter22")

	_, err := env.service.RevokeSession(context.Background(), aliceCred.CookieValue, bobCred.Session.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// the targeted session must survive
	_, err = env.service.ValidateSession(context.Background(), bobCred.CookieValue)
	assert.NoError(t, err)
}

func TestRevokeMissingSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	_, err := env.service.RevokeSession(context.Background(), cred.CookieValue, 999999)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLoginInvalidatesInboundSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", "secret123", true)
	cred := env.login(t, user.Email, "secret123")

	_, err := env.service.InitiateLogin(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "secret123",
		Cookie:   cred.CookieValue,
	})
	require.NoError(t, err)

	_, err = env.service.ValidateSession(context.Background(), cred.CookieValue)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
