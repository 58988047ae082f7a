package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/lexikon-app/lexikon/internal/auth"
	"github.com/lexikon-app/lexikon/internal/words"
	"github.com/spf13/cast"
)

type WordHandler struct {
	wordService WordService
	authService AuthService
	cookieName  string
}

func NewWordHandler(wordService WordService, authService AuthService, cookieName string) *WordHandler {
	return &WordHandler{
		wordService: wordService,
		authService: authService,
		cookieName:  cookieName,
	}
}

func (h *WordHandler) resolveScope(ctx *fiber.Ctx) *auth.Scope {
	return h.authService.ResolveScope(ctx.Context(), ctx.Cookies(h.cookieName))
}

// GetWords handles GET /words. Regular users see their own words; admins see
// everything. categoryId and learned query params narrow the result.
func (h *WordHandler) GetWords(ctx *fiber.Ctx) error {
	scope := h.resolveScope(ctx)
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	var filter words.ListFilter
	if raw := ctx.Query("categoryId"); raw != "" {
		id, err := cast.ToUint64E(raw)
		if err != nil {
			return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if raw := ctx.Query("learned"); raw != "" {
		learned, err := cast.ToBoolE(raw)
		if err != nil {
			return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
		}
		filter.Learned = &learned
	}

	list, err := h.wordService.ListWords(ctx.Context(), scope, filter)
	if err != nil {
		return err
	}
	resp := make([]WordResponse, 0, len(list))
	for _, word := range list {
		resp = append(resp, newWordResponse(word))
	}
	return ctx.JSON(fiber.Map{"words": resp})
}

// GetWord handles GET /words/:id.
func (h *WordHandler) GetWord(ctx *fiber.Ctx) error {
	scope := h.resolveScope(ctx)
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}
	id, err := cast.ToUint64E(ctx.Params("id"))
	if err != nil || id == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	word, err := h.wordService.GetWord(ctx.Context(), scope, uint(id))
	if errors.Is(err, words.ErrWordNotFound) {
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgWordNotFound)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(newWordResponse(word))
}

type createWordRequest struct {
	CategoryID  string `json:"categoryId"`
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Language    string `json:"language"`
}

// PostWord handles POST /words.
func (h *WordHandler) PostWord(ctx *fiber.Ctx) error {
	scope := h.resolveScope(ctx)
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	var req createWordRequest
	if err := ctx.BodyParser(&req); err != nil || req.Term == "" || req.Translation == "" {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}
	categoryID, err := cast.ToUint64E(req.CategoryID)
	if err != nil || categoryID == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	word, err := h.wordService.CreateWord(ctx.Context(), scope, words.WordInput{
		CategoryID:  uint(categoryID),
		Term:        req.Term,
		Translation: req.Translation,
		Language:    req.Language,
	})
	if errors.Is(err, words.ErrCategoryNotFound) {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgCategoryNotFound)
	}
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(newWordResponse(word))
}

type updateWordRequest struct {
	Term        *string `json:"term"`
	Translation *string `json:"translation"`
	Learned     *bool   `json:"learned"`
}

// PutWord handles PUT /words/:id. Absent fields are left untouched.
func (h *WordHandler) PutWord(ctx *fiber.Ctx) error {
	scope := h.resolveScope(ctx)
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}
	id, err := cast.ToUint64E(ctx.Params("id"))
	if err != nil || id == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	var req updateWordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	word, err := h.wordService.UpdateWord(ctx.Context(), scope, uint(id), words.WordUpdate{
		Term:        req.Term,
		Translation: req.Translation,
		Learned:     req.Learned,
	})
	switch {
	case errors.Is(err, words.ErrWordNotFound):
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgWordNotFound)
	case errors.Is(err, words.ErrForbidden):
		return ErrorResponse(ctx, fiber.StatusForbidden, MsgForbidden)
	case err != nil:
		return err
	}
	return ctx.JSON(newWordResponse(word))
}

// DeleteWord handles DELETE /words/:id.
func (h *WordHandler) DeleteWord(ctx *fiber.Ctx) error {
	scope := h.resolveScope(ctx)
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}
	id, err := cast.ToUint64E(ctx.Params("id"))
	if err != nil || id == 0 {
		return ErrorResponse(ctx, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	err = h.wordService.DeleteWord(ctx.Context(), scope, uint(id))
	switch {
	case errors.Is(err, words.ErrWordNotFound):
		return ErrorResponse(ctx, fiber.StatusNotFound, MsgWordNotFound)
	case errors.Is(err, words.ErrForbidden):
		return ErrorResponse(ctx, fiber.StatusForbidden, MsgForbidden)
	case err != nil:
		return err
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// GetCategories handles GET /categories. Categories are shared reference
// data, so any authenticated caller may list them.
func (h *WordHandler) GetCategories(ctx *fiber.Ctx) error {
	scope := h.resolveScope(ctx)
	if scope == nil {
		return ErrorResponse(ctx, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	categories, err := h.wordService.ListCategories(ctx.Context())
	if err != nil {
		return err
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, CategoryResponse{ID: formatID(category.ID), Name: category.Name})
	}
	return ctx.JSON(fiber.Map{"categories": resp})
}
