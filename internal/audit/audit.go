// Package audit appends immutable records of security-relevant actions. The
// service swallows its own persistence failures: a broken audit store must
// never abort the operation being audited.
package audit

import (
	"context"
	"log/slog"

	"github.com/lexikon-app/lexikon/model"
)

const (
	ActionLoginSuccess           = "LOGIN_SUCCESS"
	ActionLoginFailed            = "LOGIN_FAILED"
	ActionMFAVerified            = "MFA_VERIFIED"
	ActionMFAFailed              = "MFA_FAILED"
	ActionLogout                 = "LOGOUT"
	ActionSessionRevoked         = "SESSION_REVOKED"
	ActionPasswordChanged        = "PASSWORD_CHANGED"
	ActionPasswordResetRequested = "PASSWORD_RESET_REQUESTED"
	ActionPasswordResetCompleted = "PASSWORD_RESET_COMPLETED"
	ActionProfileUpdated         = "PROFILE_UPDATED"
	ActionEmailUpdated           = "EMAIL_UPDATED"
	ActionUserCreated            = "USER_CREATED"
	ActionUserDeleted            = "USER_DELETED"
	ActionAdminUserCreated       = "ADMIN_USER_CREATED"
	ActionAdminUserDeleted       = "ADMIN_USER_DELETED"
)

const (
	ResourceUser    = "user"
	ResourceSession = "session"
)

// Recorder is the single dependency injected into every service that needs
// to leave an audit trail.
type Recorder interface {
	Record(ctx context.Context, entry *model.AuditLog)
}

type Service struct {
	repo Repository
}

func (s *Service) Record(ctx context.Context, entry *model.AuditLog) {
	if err := s.repo.Create(ctx, entry); err != nil {
		slog.Error("Failed to record audit log", "action", entry.Action, "error", err)
	}
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type LoginRecord struct {
	UserID    *uint
	Email     string
	IP        string
	UserAgent string
	Success   bool
	Reason    string
}

type MFARecord struct {
	UserID      uint
	Email       string
	ChallengeID string
	IP          string
	UserAgent   string
	Success     bool
	Reason      string
}

type SessionRecord struct {
	UserID    uint
	Email     string
	SessionID uint
	IP        string
	UserAgent string
}

type PasswordRecord struct {
	UserID    uint
	Email     string
	IP        string
	UserAgent string
	Success   bool
	Reason    string
}

type UserRecord struct {
	UserID    uint
	Email     string
	ByAdmin   bool
	IP        string
	UserAgent string
}

type ProfileRecord struct {
	UserID    uint
	Email     string
	Fields    []string
	IP        string
	UserAgent string
}

func RecordLogin(ctx context.Context, r Recorder, rec LoginRecord) {
	action := ActionLoginFailed
	if rec.Success {
		action = ActionLoginSuccess
	}
	r.Record(ctx, &model.AuditLog{
		UserID:       rec.UserID,
		Email:        rec.Email,
		Action:       action,
		ResourceType: ResourceUser,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      rec.Success,
		ErrorMessage: rec.Reason,
	})
}

func RecordMFA(ctx context.Context, r Recorder, rec MFARecord) {
	action := ActionMFAFailed
	if rec.Success {
		action = ActionMFAVerified
	}
	userID := rec.UserID
	var metadata map[string]any
	if rec.ChallengeID != "" {
		metadata = map[string]any{"challengeId": rec.ChallengeID}
	}
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       action,
		ResourceType: ResourceUser,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      rec.Success,
		ErrorMessage: rec.Reason,
		Metadata:     metadata,
	})
}

func recordSession(ctx context.Context, r Recorder, action string, rec SessionRecord) {
	userID := rec.UserID
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       action,
		ResourceType: ResourceSession,
		ResourceID:   formatID(rec.SessionID),
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      true,
	})
}

func RecordLogout(ctx context.Context, r Recorder, rec SessionRecord) {
	recordSession(ctx, r, ActionLogout, rec)
}

func RecordSessionRevoked(ctx context.Context, r Recorder, rec SessionRecord) {
	recordSession(ctx, r, ActionSessionRevoked, rec)
}

func recordPassword(ctx context.Context, r Recorder, action string, rec PasswordRecord) {
	userID := rec.UserID
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       action,
		ResourceType: ResourceUser,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      rec.Success,
		ErrorMessage: rec.Reason,
	})
}

func RecordPasswordChanged(ctx context.Context, r Recorder, rec PasswordRecord) {
	recordPassword(ctx, r, ActionPasswordChanged, rec)
}

func RecordPasswordResetRequested(ctx context.Context, r Recorder, rec PasswordRecord) {
	recordPassword(ctx, r, ActionPasswordResetRequested, rec)
}

func RecordPasswordResetCompleted(ctx context.Context, r Recorder, rec PasswordRecord) {
	recordPassword(ctx, r, ActionPasswordResetCompleted, rec)
}

func RecordProfileUpdated(ctx context.Context, r Recorder, rec ProfileRecord) {
	userID := rec.UserID
	var metadata map[string]any
	if len(rec.Fields) > 0 {
		metadata = map[string]any{"fields": rec.Fields}
	}
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       ActionProfileUpdated,
		ResourceType: ResourceUser,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      true,
		Metadata:     metadata,
	})
}

func RecordEmailUpdated(ctx context.Context, r Recorder, rec ProfileRecord) {
	userID := rec.UserID
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       ActionEmailUpdated,
		ResourceType: ResourceUser,
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      true,
	})
}

func RecordUserCreated(ctx context.Context, r Recorder, rec UserRecord) {
	action := ActionUserCreated
	if rec.ByAdmin {
		action = ActionAdminUserCreated
	}
	userID := rec.UserID
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       action,
		ResourceType: ResourceUser,
		ResourceID:   formatID(rec.UserID),
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      true,
	})
}

func RecordUserDeleted(ctx context.Context, r Recorder, rec UserRecord) {
	action := ActionUserDeleted
	if rec.ByAdmin {
		action = ActionAdminUserDeleted
	}
	userID := rec.UserID
	r.Record(ctx, &model.AuditLog{
		UserID:       &userID,
		Email:        rec.Email,
		Action:       action,
		ResourceType: ResourceUser,
		ResourceID:   formatID(rec.UserID),
		IP:           rec.IP,
		UserAgent:    rec.UserAgent,
		Success:      true,
	})
}
