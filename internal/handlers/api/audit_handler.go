package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lexikon-app/lexikon/internal/audit"
	"github.com/spf13/cast"
)

type AuditHandler struct {
	auditService AuditService
	authService  AuthService
	cookieName   string
}

func NewAuditHandler(auditService AuditService, authService AuthService, cookieName string) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		authService:  authService,
		cookieName:   cookieName,
	}
}

// parseTimeParam accepts RFC 3339 timestamps or plain dates. A date-only
// upper bound is pushed to the end of that day so "to=2026-01-31" includes
// the whole of January 31st.
func parseTimeParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}

func (h *AuditHandler) requireAdmin(ctx *fiber.Ctx) (ok bool, errResp error) {
	scope := h.authService.ResolveScope(ctx.Context(), ctx.Cookies(h.cookieName))
	if scope == nil {
		return false, ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}
	if !scope.IsAdmin() {
		return false, ErrorResponse(ctx, fiber.StatusForbidden, MsgForbidden)
	}
	return true, nil
}

func parseAuditFilter(ctx *fiber.Ctx) (audit.Filter, error) {
	filter := audit.Filter{
		Action: ctx.Query("action"),
		Limit:  cast.ToInt(ctx.Query("limit")),
		Offset: cast.ToInt(ctx.Query("offset")),
	}
	if raw := ctx.Query("userId"); raw != "" {
		id, err := cast.ToUint64E(raw)
		if err != nil {
			return filter, err
		}
		userID := uint(id)
		filter.UserID = &userID
	}
	if raw := ctx.Query("success"); raw != "" {
		success, err := cast.ToBoolE(raw)
		if err != nil {
			return filter, err
		}
		filter.Success = &success
	}
	from, err := parseTimeParam(ctx.Query("from"), false)
	if err != nil {
		return filter, err
	}
	filter.From = from
	to, err := parseTimeParam(ctx.Query("to"), true)
	if err != nil {
		return filter, err
	}
	filter.To = to
	return filter, nil
}

// GetAuditLogs handles GET /audit-logs: a filtered page of entries,
// admin only.
func (h *AuditHandler) GetAuditLogs(ctx *fiber.Ctx) error {
	if ok, resp := h.requireAdmin(ctx); !ok {
		return resp
	}

	filter, err := parseAuditFilter(ctx)
	if err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	page, err := h.auditService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(newLogPageResponse(page))
}

// GetUserAuditLogs handles GET /audit-logs/user/:userId: one user's trail,
// admin only.
func (h *AuditHandler) GetUserAuditLogs(ctx *fiber.Ctx) error {
	if ok, resp := h.requireAdmin(ctx); !ok {
		return resp
	}

	id, err := cast.ToUint64E(ctx.Params("userId"))
	if err != nil || id == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	filter, err := parseAuditFilter(ctx)
	if err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}
	userID := uint(id)
	filter.UserID = &userID

	page, err := h.auditService.List(ctx.Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(newLogPageResponse(page))
}

// GetAuditStats handles GET /audit-logs/stats, admin only.
func (h *AuditHandler) GetAuditStats(ctx *fiber.Ctx) error {
	if ok, resp := h.requireAdmin(ctx); !ok {
		return resp
	}

	from, err := parseTimeParam(ctx.Query("from"), false)
	if err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}
	to, err := parseTimeParam(ctx.Query("to"), true)
	if err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	stats, err := h.auditService.Stats(ctx.Context(), from, to)
	if err != nil {
		return err
	}
	return ctx.JSON(stats)
}

type logPageResponse struct {
	Logs    []AuditLogResponse `json:"logs"`
	Total   int64              `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
	HasMore bool               `json:"hasMore"`
}

func newLogPageResponse(page *audit.LogPage) logPageResponse {
	logs := make([]AuditLogResponse, 0, len(page.Logs))
	for _, entry := range page.Logs {
		logs = append(logs, newAuditLogResponse(entry))
	}
	return logPageResponse{
		Logs:    logs,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	}
}
