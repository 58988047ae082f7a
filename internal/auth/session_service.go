package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/lexikon-app/lexikon/internal/audit"
	"github.com/lexikon-app/lexikon/internal/common"
	"github.com/lexikon-app/lexikon/internal/mail"
	"github.com/lexikon-app/lexikon/internal/mfa"
	"github.com/lexikon-app/lexikon/internal/users"
	"github.com/lexikon-app/lexikon/model"
	"github.com/lexikon-app/lexikon/params"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService orchestrates login, the OTP second factor, session issuance and
// validation. All security state transitions go through the audit recorder.
type AuthService struct {
	userRepo      users.UserRepository
	sessionRepo   SessionRepository
	mailSender    mail.MailSender
	auditor       audit.Recorder
	sessionMaxAge time.Duration
}

func NewAuthService(userRepo users.UserRepository, sessionRepo SessionRepository, mailSender mail.MailSender, auditor audit.Recorder, sessionMaxAge time.Duration) *AuthService {
	if sessionMaxAge <= 0 {
		sessionMaxAge = params.DefaultSessionExpiration
	}
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		mailSender:    mailSender,
		auditor:       auditor,
		sessionMaxAge: sessionMaxAge,
	}
}

func (s *AuthService) SessionMaxAge() time.Duration {
	return s.sessionMaxAge
}

type LoginInput struct {
	Email     string
	Password  string
	Cookie    string // inbound session cookie, may be empty
	IP        string
	UserAgent string
}

type LoginResult struct {
	MFARequired bool `json:"mfaRequired"`
	UserID      uint `json:"userId"`
}

// InitiateLogin validates the password and, on success, issues an OTP
// challenge and mails the code. An unknown email and a wrong password yield
// the same error; an unverified email is reported distinctly so the client
// can offer resending the verification link.
func (s *AuthService) InitiateLogin(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		audit.RecordLogin(ctx, s.auditor, audit.LoginRecord{
			Email:     input.Email,
			IP:        input.IP,
			UserAgent: input.UserAgent,
			Success:   false,
			Reason:    "unknown email",
		})
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		audit.RecordLogin(ctx, s.auditor, audit.LoginRecord{
			UserID:    &user.ID,
			Email:     user.Email,
			IP:        input.IP,
			UserAgent: input.UserAgent,
			Success:   false,
			Reason:    "password mismatch",
		})
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		audit.RecordLogin(ctx, s.auditor, audit.LoginRecord{
			UserID:    &user.ID,
			Email:     user.Email,
			IP:        input.IP,
			UserAgent: input.UserAgent,
			Success:   false,
			Reason:    "email not verified",
		})
		return nil, ErrEmailNotVerified
	}

	// Logging in from an already-authenticated browser invalidates that
	// session before a new challenge is issued.
	if sessionID, _, err := parseCookie(input.Cookie); err == nil {
		s.sessionRepo.Delete(ctx, sessionID)
	}

	// A reissued challenge overwrites any pending one; only the newest
	// code is ever valid.
	challenge, code, err := mfa.Issue(time.Now())
	if err != nil {
		return nil, err
	}
	mfa.Apply(user, challenge)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := mail.SendOTPCode(s.mailSender, user.Email, code); err != nil {
		return nil, err
	}

	audit.RecordLogin(ctx, s.auditor, audit.LoginRecord{
		UserID:    &user.ID,
		Email:     user.Email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		Success:   true,
	})
	return &LoginResult{MFARequired: true, UserID: user.ID}, nil
}

type VerifyMFAInput struct {
	UserID    uint
	Code      string
	IP        string
	UserAgent string
}

type SessionCredential struct {
	CookieValue string
	Session     *model.Session
}

// hashSessionToken derives the stored hash from a raw token. The token is
// longer than bcrypt's 72-byte input cap, so it is digested first.
func hashSessionToken(rawToken string) (string, error) {
	digest := sha256.Sum256([]byte(rawToken))
	hash, err := bcrypt.GenerateFromPassword(digest[:], bcrypt.DefaultCost)
	return string(hash), err
}

func compareSessionToken(tokenHash, rawToken string) bool {
	digest := sha256.Sum256([]byte(rawToken))
	return bcrypt.CompareHashAndPassword([]byte(tokenHash), digest[:]) == nil
}

// VerifyMFA checks the submitted code and mints a session on success. The
// raw secret appears only in the returned cookie value.
func (s *AuthService) VerifyMFA(ctx context.Context, input VerifyMFAInput) (*SessionCredential, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	challenge := mfa.FromUser(user)
	switch mfa.Verify(challenge, input.Code, time.Now()) {
	case mfa.OutcomeNoChallenge:
		s.recordMFA(ctx, user, input, false, "no challenge pending")
		return nil, ErrNoChallengePending
	case mfa.OutcomeExpired:
		// One-shot cleanup: the caller must restart the login flow.
		mfa.Apply(user, nil)
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
		s.recordMFA(ctx, user, input, false, "challenge expired")
		return nil, ErrChallengeExpired
	case mfa.OutcomeWrongCode:
		// Challenge stays pending until expiry.
		s.recordMFA(ctx, user, input, false, "code mismatch")
		return nil, ErrInvalidCode
	}

	rawToken, err := common.GenerateHexToken(params.SessionTokenLength)
	if err != nil {
		return nil, err
	}
	tokenHash, err := hashSessionToken(rawToken)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		UserID:    user.ID,
		Token:     tokenHash,
		ExpiresAt: time.Now().Add(s.sessionMaxAge),
		IP:        input.IP,
		UserAgent: input.UserAgent,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	mfa.Apply(user, nil)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.recordMFA(ctx, user, input, true, "")
	return &SessionCredential{
		CookieValue: FormatCookie(session.ID, rawToken),
		Session:     session,
	}, nil
}

func (s *AuthService) recordMFA(ctx context.Context, user *model.User, input VerifyMFAInput, success bool, reason string) {
	audit.RecordMFA(ctx, s.auditor, audit.MFARecord{
		UserID:    user.ID,
		Email:     user.Email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		Success:   success,
		Reason:    reason,
	})
}

type AuthContext struct {
	User    *model.User
	Session *model.Session
}

// ValidateSession resolves an inbound cookie value to its user and session.
// Expiry is checked at read time; no background cleanup exists.
func (s *AuthService) ValidateSession(ctx context.Context, cookieValue string) (*AuthContext, error) {
	sessionID, rawToken, err := parseCookie(cookieValue)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	if !compareSessionToken(session.Token, rawToken) {
		return nil, ErrTokenMismatch
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &AuthContext{User: user, Session: session}, nil
}

// DestroySession deletes the session named by the cookie. The caller clears
// the client cookie on success.
func (s *AuthService) DestroySession(ctx context.Context, cookieValue, ip, userAgent string) error {
	sessionID, _, err := parseCookie(cookieValue)
	if err != nil {
		return err
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	if _, err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		return err
	}

	rec := audit.SessionRecord{
		UserID:    session.UserID,
		SessionID: session.ID,
		IP:        ip,
		UserAgent: userAgent,
	}
	if user, err := s.userRepo.GetByID(ctx, session.UserID); err == nil {
		rec.Email = user.Email
	}
	audit.RecordLogout(ctx, s.auditor, rec)
	return nil
}

type SessionSummary struct {
	ID        uint      `json:"id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsCurrent bool      `json:"isCurrent"`
}

// ListSessions returns the caller's sessions newest-first. Token hashes are
// never exposed.
func (s *AuthService) ListSessions(ctx context.Context, cookieValue string) ([]SessionSummary, error) {
	authCtx, err := s.ValidateSession(ctx, cookieValue)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, authCtx.User.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, SessionSummary{
			ID:        sess.ID,
			IP:        sess.IP,
			UserAgent: sess.UserAgent,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
			IsCurrent: sess.ID == authCtx.Session.ID,
		})
	}
	return summaries, nil
}

// RevokeSession deletes one of the caller's own sessions. Revoking a session
// owned by another user fails without touching the row. The returned flag
// reports whether the caller revoked its current session, in which case the
// request cookie must be cleared.
func (s *AuthService) RevokeSession(ctx context.Context, cookieValue string, targetSessionID uint) (bool, error) {
	authCtx, err := s.ValidateSession(ctx, cookieValue)
	if err != nil {
		return false, err
	}

	target, err := s.sessionRepo.GetByID(ctx, targetSessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrSessionNotFound
	}
	if err != nil {
		return false, err
	}
	if target.UserID != authCtx.User.ID {
		return false, ErrForbidden
	}

	if _, err := s.sessionRepo.Delete(ctx, target.ID); err != nil {
		return false, err
	}

	audit.RecordSessionRevoked(ctx, s.auditor, audit.SessionRecord{
		UserID:    authCtx.User.ID,
		Email:     authCtx.User.Email,
		SessionID: target.ID,
		IP:        authCtx.Session.IP,
		UserAgent: authCtx.Session.UserAgent,
	})
	return target.ID == authCtx.Session.ID, nil
}
