package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lexikon-app/lexikon/internal/mail"
	"github.com/lexikon-app/lexikon/internal/users"
	"github.com/spf13/cast"
)

type AccountHandler struct {
	userService UserService
	authService AuthService
	mailSender  mail.MailSender
	baseURL     string
	cookieName  string
}

func NewAccountHandler(userService UserService, authService AuthService, mailSender mail.MailSender, baseURL, cookieName string) *AccountHandler {
	return &AccountHandler{
		userService: userService,
		authService: authService,
		mailSender:  mailSender,
		baseURL:     baseURL,
		cookieName:  cookieName,
	}
}

func (h *AccountHandler) verifyURL(token string) string {
	return fmt.Sprintf("%s/verify-email?token=%s", h.baseURL, token)
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// PostRegister handles POST /users: account signup. The account starts
// unverified; login is blocked until the mailed link is followed.
func (h *AccountHandler) PostRegister(ctx *fiber.Ctx) error {
	var req registerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}
	if !validEmail(req.Email) || !validPassword(req.Password) {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	user, token, err := h.userService.Register(ctx.Context(), users.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	})
	if errors.Is(err, users.ErrEmailRegistered) {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgEmailRegistered)
	}
	if err != nil {
		return err
	}

	if err := mail.SendVerificationLink(h.mailSender, user.Email, h.verifyURL(token)); err != nil {
		slog.Error("Failed to send verification mail", "email", user.Email, "error", err)
	}
	return MessageResponse(ctx, fiber.StatusCreated, MsgVerificationSent)
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

// PostResendVerification handles POST /sessions/resend-verification: the
// affordance driven by the EmailNotVerified login error.
func (h *AccountHandler) PostResendVerification(ctx *fiber.Ctx) error {
	var req resendVerificationRequest
	if err := ctx.BodyParser(&req); err != nil || !validEmail(req.Email) {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	user, token, err := h.userService.ResendVerification(ctx.Context(), req.Email)
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgUserNotFound)
	case errors.Is(err, users.ErrAlreadyVerified):
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgAlreadyVerified)
	case err != nil:
		return err
	}

	if err := mail.SendVerificationLink(h.mailSender, user.Email, h.verifyURL(token)); err != nil {
		slog.Error("Failed to send verification mail", "email", user.Email, "error", err)
	}
	return MessageResponse(ctx, fiber.StatusOK, MsgVerificationSent)
}

// GetVerifyEmail handles GET /verify-email?token=...: consuming the mailed
// activation link.
func (h *AccountHandler) GetVerifyEmail(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	if _, err := h.userService.VerifyEmail(ctx.Context(), token); err != nil {
		if errors.Is(err, users.ErrInvalidVerificationToken) || errors.Is(err, users.ErrUserNotFound) {
			return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidVerifyToken)
		}
		return err
	}
	return MessageResponse(ctx, fiber.StatusOK, MsgEmailVerified)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PutPassword handles PUT /users/me/password.
func (h *AccountHandler) PutPassword(ctx *fiber.Ctx) error {
	scope := h.authService.ResolveScope(ctx.Context(), ctx.Cookies(h.cookieName))
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	var req changePasswordRequest
	if err := ctx.BodyParser(&req); err != nil || !validPassword(req.NewPassword) {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	err := h.userService.UpdatePassword(ctx.Context(), scope.User.ID, req.CurrentPassword, req.NewPassword, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if errors.Is(err, users.ErrIncorrectPassword) {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgIncorrectPassword)
	}
	if err != nil {
		return err
	}
	return MessageResponse(ctx, fiber.StatusOK, MsgPasswordChanged)
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// PutProfile handles PUT /users/me.
func (h *AccountHandler) PutProfile(ctx *fiber.Ctx) error {
	scope := h.authService.ResolveScope(ctx.Context(), ctx.Cookies(h.cookieName))
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	var req updateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	user, err := h.userService.UpdateProfile(ctx.Context(), scope.User.ID, users.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}
	return ctx.JSON(newUserResponse(user))
}

// DeleteUser handles DELETE /users/:userId: self-deletion, or any account
// when the caller is an admin.
func (h *AccountHandler) DeleteUser(ctx *fiber.Ctx) error {
	scope := h.authService.ResolveScope(ctx.Context(), ctx.Cookies(h.cookieName))
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	targetID, err := cast.ToUint64E(ctx.Params("userId"))
	if err != nil || targetID == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}
	if !scope.CanMutate(uint(targetID)) {
		return ErrorResponse(ctx, fiber.StatusForbidden, MsgForbidden)
	}

	byAdmin := scope.IsAdmin() && uint(targetID) != scope.User.ID
	err = h.userService.DeleteUser(ctx.Context(), uint(targetID), byAdmin, ctx.IP(), ctx.Get(fiber.HeaderUserAgent))
	if errors.Is(err, users.ErrUserNotFound) {
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgUserNotFound)
	}
	if err != nil {
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
