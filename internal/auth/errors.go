package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoChallengePending = errors.New("no challenge pending")
	ErrChallengeExpired   = errors.New("challenge expired")
	ErrInvalidCode        = errors.New("invalid code")
	ErrMalformedCookie    = errors.New("malformed session cookie")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrTokenMismatch      = errors.New("session token mismatch")
	ErrForbidden          = errors.New("forbidden")
)
