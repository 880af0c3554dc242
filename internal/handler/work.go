package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/storage"
)

// WorkHandler serves the showcased work records: public browsing with
// view counting and like toggling, plus the admin CRUD and image upload.
type WorkHandler struct {
	Works   *repository.WorkRecordRepo
	Storage storage.ObjectStorage
	Log     zerolog.Logger
}

// NewWorkHandler wires the work record handler.
func NewWorkHandler(w *repository.WorkRecordRepo, st storage.ObjectStorage, log zerolog.Logger) *WorkHandler {
	return &WorkHandler{Works: w, Storage: st, Log: log}
}

// List returns work records, optionally by category.
// GET /v1/work-records?category=REPAIR
func (h *WorkHandler) List(c echo.Context) error {
	var category *model.ServiceCategory
	if raw := c.QueryParam("category"); raw != "" {
		cat, ok := model.ParseCategory(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
		}
		category = &cat
	}
	items, err := h.Works.List(c.Request().Context(), category)
	if err != nil {
		h.Log.Error().Err(err).Msg("list work records failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	out := make([]echo.Map, 0, len(items))
	for _, w := range items {
		out = append(out, workJSON(w))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get returns one record with its images and counts a deduplicated view.
// GET /v1/work-records/:id
func (h *WorkHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	w, err := h.Works.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "work record not found")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("get work record failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if counted, err := h.Works.RegisterView(ctx, id, c.RealIP()); err != nil {
		// the page still renders; only the counter is affected
		h.Log.Warn().Err(err).Uint64("id", id).Msg("register view failed")
	} else if counted {
		w.Views++
	}

	images, err := h.Works.Images(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Msg("list work images failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	resp := workJSON(w)
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	resp["images"] = urls
	return c.JSON(http.StatusOK, resp)
}

// Like toggles the caller's like on a record.
// POST /v1/work-records/:id/like
func (h *WorkHandler) Like(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	liked, err := h.Works.ToggleLike(c.Request().Context(), id, c.RealIP())
	if err != nil {
		h.Log.Error().Err(err).Uint64("id", id).Msg("toggle like failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

type workRequest struct {
	Category string `json:"category" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
	Body     string `json:"body" validate:"required,max=5000"`
}

// Create adds a work record. POST /admin/work-records
func (h *WorkHandler) Create(c echo.Context) error {
	var req workRequest
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
	w := &model.WorkRecord{Category: cat, Title: req.Title, Body: req.Body}
	if err := h.Works.Create(c.Request().Context(), w); err != nil {
		h.Log.Error().Err(err).Msg("create work record failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, workJSON(w))
}

// Update rewrites a work record. PUT /admin/work-records/:id
func (h *WorkHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req workRequest
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
	w := &model.WorkRecord{ID: id, Category: cat, Title: req.Title, Body: req.Body}
	err = h.Works.Update(c.Request().Context(), w)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "work record not found")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("update work record failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, workJSON(w))
}

// Delete removes a record with its images and stored objects.
// DELETE /admin/work-records/:id
func (h *WorkHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	images, err := h.Works.Images(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Msg("list work images failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	err = h.Works.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "work record not found")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("delete work record failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	for _, img := range images {
		if err := h.Storage.Remove(img.StoragePath); err != nil {
			h.Log.Warn().Err(err).Str("key", img.StoragePath).Msg("remove stored object failed")
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// AddImage attaches an uploaded photo to a record.
// POST /admin/work-records/:id/images (multipart: image)
func (h *WorkHandler) AddImage(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Works.GetByID(ctx, id); errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "work record not found")
	} else if err != nil {
		h.Log.Error().Err(err).Msg("get work record failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	data, ext, err := readUpload(c, "image")
	if err != nil {
		return err
	}
	existing, err := h.Works.Images(ctx, id)
	if err != nil {
		h.Log.Error().Err(err).Msg("list work images failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	key := fmt.Sprintf("work/%d/%s%s", id, uuid.NewString(), ext)
	url, err := h.Storage.Upload(key, data)
	if err != nil {
		h.Log.Error().Err(err).Str("key", key).Msg("upload image failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	img := &model.WorkImage{WorkRecordID: id, URL: url, StoragePath: key, SortOrder: len(existing) + 1}
	if err := h.Works.AddImage(ctx, img); err != nil {
		_ = h.Storage.Remove(key)
		h.Log.Error().Err(err).Msg("create work image row failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         img.ID,
		"url":        img.URL,
		"sort_order": img.SortOrder,
	})
}

func workJSON(w *model.WorkRecord) echo.Map {
	return echo.Map{
		"id":         w.ID,
		"category":   w.Category,
		"title":      w.Title,
		"body":       w.Body,
		"views":      w.Views,
		"likes":      w.Likes,
		"created_at": w.CreatedAt.Format(apiTimeLayout),
	}
}
