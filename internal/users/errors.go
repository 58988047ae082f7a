package users

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrEmailRegistered          = errors.New("email already registered")
	ErrAlreadyVerified          = errors.New("email already verified")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrIncorrectPassword        = errors.New("incorrect password")
)
