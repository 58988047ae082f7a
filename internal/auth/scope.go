package auth

import (
	"context"

	"github.com/lexikon-app/lexikon/model"
)

// Scope is the per-request authorization context. Admins see everything;
// everyone else is confined to their own rows.
type Scope struct {
	User    *model.User
	Session *model.Session
}

// ResolveScope turns an inbound cookie into an authorization scope. Any
// validation failure yields nil; callers uniformly translate nil into a 401.
func (s *AuthService) ResolveScope(ctx context.Context, cookieValue string) *Scope {
	authCtx, err := s.ValidateSession(ctx, cookieValue)
	if err != nil {
		return nil
	}
	return &Scope{User: authCtx.User, Session: authCtx.Session}
}

// Where returns the filter every list/lookup query must apply: empty for
// admins, owner-constrained otherwise. The map form plugs directly into
// gorm's Where.
func (s *Scope) Where() map[string]any {
	if s.User.IsAdmin {
		return map[string]any{}
	}
	return map[string]any{"user_id": s.User.ID}
}

// CanMutate reports whether the caller may modify a record owned by ownerID.
func (s *Scope) CanMutate(ownerID uint) bool {
	return s.User.IsAdmin || s.User.ID == ownerID
}

func (s *Scope) IsAdmin() bool {
	return s.User.IsAdmin
}
