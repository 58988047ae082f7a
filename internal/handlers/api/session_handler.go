package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lexikon-app/lexikon/internal/auth"
	"github.com/spf13/cast"
)

type SessionHandler struct {
	authService  AuthService
	cookieName   string
	cookieSecure bool
}

func NewSessionHandler(authService AuthService, cookieName string, cookieSecure bool) *SessionHandler {
	return &SessionHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

func (h *SessionHandler) setSessionCookie(ctx *fiber.Ctx, value string, expiresAt time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(h.authService.SessionMaxAge().Seconds()),
		Expires:  expiresAt,
	})
}

func (h *SessionHandler) clearSessionCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PostLogin handles POST /sessions: the password stage of the login flow.
func (h *SessionHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	result, err := h.authService.InitiateLogin(ctx.Context(), auth.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		Cookie:    ctx.Cookies(h.cookieName),
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	})
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgInvalidCredentials)
	case errors.Is(err, auth.ErrEmailNotVerified):
		return ErrorResponse(ctx, fiber.StatusForbidden, MsgEmailNotVerified)
	case err != nil:
		return err
	}

	return ctx.JSON(fiber.Map{
		"mfaRequired": result.MFARequired,
		"userId":      formatID(result.UserID),
		"message":     MsgCodeSent,
	})
}

type verifyMFARequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

// PostVerifyMFA handles POST /sessions/verify-mfa: the OTP stage. On success
// the session cookie is set and the raw token is forgotten.
func (h *SessionHandler) PostVerifyMFA(ctx *fiber.Ctx) error {
	var req verifyMFARequest
	if err := ctx.BodyParser(&req); err != nil || req.Code == "" {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}
	userID, err := cast.ToUint64E(req.UserID)
	if err != nil || userID == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	cred, err := h.authService.VerifyMFA(ctx.Context(), auth.VerifyMFAInput{
		UserID:    uint(userID),
		Code:      req.Code,
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	})
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgUserNotFound)
	case errors.Is(err, auth.ErrNoChallengePending):
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgNoChallengePending)
	case errors.Is(err, auth.ErrChallengeExpired):
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgChallengeExpired)
	case errors.Is(err, auth.ErrInvalidCode):
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgInvalidCode)
	case err != nil:
		return err
	}

	h.setSessionCookie(ctx, cred.CookieValue, cred.Session.ExpiresAt)
	return MessageResponse(ctx, fiber.StatusOK, MsgLoginSuccess)
}

// GetMe handles GET /sessions/me: the current user's profile.
func (h *SessionHandler) GetMe(ctx *fiber.Ctx) error {
	scope := h.authService.ResolveScope(ctx.Context(), ctx.Cookies(h.cookieName))
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}
	return ctx.JSON(newUserResponse(scope.User))
}

// GetSessions handles GET /sessions: the caller's sessions, newest first.
func (h *SessionHandler) GetSessions(ctx *fiber.Ctx) error {
	summaries, err := h.authService.ListSessions(ctx.Context(), ctx.Cookies(h.cookieName))
	if err != nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	sessions := make([]SessionResponse, 0, len(summaries))
	for _, s := range summaries {
		sessions = append(sessions, SessionResponse{
			ID:        formatID(s.ID),
			IP:        s.IP,
			UserAgent: s.UserAgent,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
			IsCurrent: s.IsCurrent,
		})
	}
	return ctx.JSON(fiber.Map{"sessions": sessions})
}

// DeleteSession handles DELETE /sessions: logout of the current session.
func (h *SessionHandler) DeleteSession(ctx *fiber.Ctx) error {
	err := h.authService.DestroySession(ctx.Context(), ctx.Cookies(h.cookieName), ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	switch {
	case errors.Is(err, auth.ErrMalformedCookie):
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	case errors.Is(err, auth.ErrSessionNotFound):
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	case err != nil:
		return err
	}

	h.clearSessionCookie(ctx)
	return MessageResponse(ctx, fiber.StatusOK, MsgLoggedOut)
}

// DeleteSessionByID handles DELETE /sessions/:sessionId: revoking one of the
// caller's own sessions.
func (h *SessionHandler) DeleteSessionByID(ctx *fiber.Ctx) error {
	targetID, err := cast.ToUint64E(ctx.Params("sessionId"))
	if err != nil || targetID == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	revokedCurrent, err := h.authService.RevokeSession(ctx.Context(), ctx.Cookies(h.cookieName), uint(targetID))
	switch {
	case errors.Is(err, auth.ErrSessionNotFound):
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgSessionNotFound)
	case errors.Is(err, auth.ErrForbidden):
		return ErrorResponse(ctx, fiber.StatusForbidden, MsgForbidden)
	case err != nil:
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	if revokedCurrent {
		h.clearSessionCookie(ctx)
	}
	return MessageResponse(ctx, fiber.StatusOK, MsgSessionRevoked)
}
