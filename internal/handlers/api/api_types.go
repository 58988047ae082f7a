package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lexikon-app/lexikon/model"
)

// ErrorResponse writes the localized error envelope.
func ErrorResponse(ctx *fiber.Ctx, status int, msg Localized) error {
	return ctx.Status(status).JSON(fiber.Map{"error": msg})
}

// MessageResponse writes a localized success message.
func MessageResponse(ctx *fiber.Ctx, status int, msg Localized) error {
	return ctx.Status(status).JSON(fiber.Map{"message": msg})
}

// IDs are snowflakes; they go over the wire as strings so JavaScript clients
// do not lose precision.
func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsVerified bool      `json:"isVerified"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

// newUserResponse excludes the password hash and challenge fields.
func newUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:         formatID(user.ID),
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsVerified: user.IsVerified,
		IsAdmin:    user.IsAdmin,
		CreatedAt:  user.CreatedAt,
	}
}

type SessionResponse struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsCurrent bool      `json:"isCurrent"`
}

type WordResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CategoryID  string    `json:"categoryId"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	Language    string    `json:"language"`
	Learned     bool      `json:"learned"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newWordResponse(word *model.Word) WordResponse {
	return WordResponse{
		ID:          formatID(word.ID),
		UserID:      formatID(word.UserID),
		CategoryID:  formatID(word.CategoryID),
		Term:        word.Term,
		Translation: word.Translation,
		Language:    word.Language,
		Learned:     word.Learned,
		CreatedAt:   word.CreatedAt,
	}
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AuditLogResponse struct {
	ID           uint64         `json:"id"`
	UserID       *string        `json:"userId,omitempty"`
	Email        string         `json:"email,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType,omitempty"`
	ResourceID   string         `json:"resourceId,omitempty"`
	IP           string         `json:"ip"`
	UserAgent    string         `json:"userAgent"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func newAuditLogResponse(entry *model.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:           entry.ID,
		Email:        entry.Email,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IP:           entry.IP,
		UserAgent:    entry.UserAgent,
		Success:      entry.Success,
		ErrorMessage: entry.ErrorMessage,
		Metadata:     entry.Metadata,
		CreatedAt:    entry.CreatedAt,
	}
	if entry.UserID != nil {
		id := formatID(*entry.UserID)
		resp.UserID = &id
	}
	return resp
}
