package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
)

// FeedbackHandler serves public feedback submission and listing plus the
// admin delete.
type FeedbackHandler struct {
	Feedbacks *repository.FeedbackRepo
	Log       zerolog.Logger
}

// NewFeedbackHandler wires the feedback handler.
func NewFeedbackHandler(fb *repository.FeedbackRepo, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{Feedbacks: fb, Log: log}
}

type createFeedbackRequest struct {
	Category string `json:"category" validate:"required"`
	Author   string `json:"author" validate:"required,max=50"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"required,max=1000"`
}

// Create stores one feedback entry. POST /v1/feedbacks
func (h *FeedbackHandler) Create(c echo.Context) error {
	var req createFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	cat, ok := model.ParseCategory(req.Category)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	f := &model.Feedback{Category: cat, Author: req.Author, Rating: req.Rating, Comment: req.Comment}
	if err := h.Feedbacks.Create(c.Request().Context(), f); err != nil {
		h.Log.Error().Err(err).Msg("create feedback failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, feedbackJSON(f))
}

// List returns feedback entries, optionally filtered by category.
// GET /v1/feedbacks?category=REPAIR&limit=20
func (h *FeedbackHandler) List(c echo.Context) error {
	var category *model.ServiceCategory
	if raw := c.QueryParam("category"); raw != "" {
		cat, ok := model.ParseCategory(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
		}
		category = &cat
	}
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	items, err := h.Feedbacks.List(c.Request().Context(), category, limit)
	if err != nil {
		h.Log.Error().Err(err).Msg("list feedbacks failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	out := make([]echo.Map, 0, len(items))
	for _, f := range items {
		out = append(out, feedbackJSON(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Delete removes a feedback entry. DELETE /admin/feedbacks/:id
func (h *FeedbackHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	err = h.Feedbacks.Delete(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "feedback not found")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("delete feedback failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

func feedbackJSON(f *model.Feedback) echo.Map {
	return echo.Map{
		"id":         f.ID,
		"category":   f.Category,
		"author":     f.Author,
		"rating":     f.Rating,
		"comment":    f.Comment,
		"created_at": f.CreatedAt.Format(apiTimeLayout),
	}
}
