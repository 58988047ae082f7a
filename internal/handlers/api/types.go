package api

import (
	"context"
	"time"

	"github.com/lexikon-app/lexikon/internal/audit"
	"github.com/lexikon-app/lexikon/internal/auth"
	"github.com/lexikon-app/lexikon/internal/users"
	"github.com/lexikon-app/lexikon/internal/words"
	"github.com/lexikon-app/lexikon/model"
)

type AuthService interface {
	InitiateLogin(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error)
	VerifyMFA(ctx context.Context, input auth.VerifyMFAInput) (*auth.SessionCredential, error)
	ValidateSession(ctx context.Context, cookieValue string) (*auth.AuthContext, error)
	DestroySession(ctx context.Context, cookieValue, ip, userAgent string) error
	ListSessions(ctx context.Context, cookieValue string) ([]auth.SessionSummary, error)
	RevokeSession(ctx context.Context, cookieValue string, targetSessionID uint) (bool, error)
	ResolveScope(ctx context.Context, cookieValue string) *auth.Scope
	SessionMaxAge() time.Duration
}

type UserService interface {
	Register(ctx context.Context, input users.RegisterInput) (*model.User, string, error)
	ResendVerification(ctx context.Context, email string) (*model.User, string, error)
	VerifyEmail(ctx context.Context, token string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword, ip, userAgent string) error
	UpdateProfile(ctx context.Context, userID uint, update users.ProfileUpdate, ip, userAgent string) (*model.User, error)
	DeleteUser(ctx context.Context, userID uint, byAdmin bool, ip, userAgent string) error
}

type WordService interface {
	ListWords(ctx context.Context, scope *auth.Scope, filter words.ListFilter) ([]*model.Word, error)
	GetWord(ctx context.Context, scope *auth.Scope, wordID uint) (*model.Word, error)
	CreateWord(ctx context.Context, scope *auth.Scope, input words.WordInput) (*model.Word, error)
	UpdateWord(ctx context.Context, scope *auth.Scope, wordID uint, update words.WordUpdate) (*model.Word, error)
	DeleteWord(ctx context.Context, scope *auth.Scope, wordID uint) error
	ListCategories(ctx context.Context) ([]*model.Category, error)
}

type AuditService interface {
	List(ctx context.Context, filter audit.Filter) (*audit.LogPage, error)
	Stats(ctx context.Context, from, to *time.Time) (*audit.Stats, error)
}
