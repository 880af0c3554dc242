package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/storage"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 10 << 20

// GalleryHandler serves the public category gallery and the admin image
// management endpoints. Image bytes live in object storage; the database
// row carries the public URL and the storage key for later removal.
type GalleryHandler struct {
	Gallery *repository.GalleryRepo
	Storage storage.ObjectStorage
	Log     zerolog.Logger
}

// NewGalleryHandler wires the gallery handler.
func NewGalleryHandler(g *repository.GalleryRepo, st storage.ObjectStorage, log zerolog.Logger) *GalleryHandler {
	return &GalleryHandler{Gallery: g, Storage: st, Log: log}
}

// List returns the active images of a category in display order.
// GET /v1/gallery?category=TUNING
func (h *GalleryHandler) List(c echo.Context) error {
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	items, err := h.Gallery.List(c.Request().Context(), cat, true)
	if err != nil {
		h.Log.Error().Err(err).Msg("list gallery failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": galleryJSONList(items)})
}

// AdminList returns every image of a category, disabled ones included.
// GET /admin/gallery?category=TUNING
func (h *GalleryHandler) AdminList(c echo.Context) error {
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	items, err := h.Gallery.List(c.Request().Context(), cat, false)
	if err != nil {
		h.Log.Error().Err(err).Msg("list gallery failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": galleryJSONList(items)})
}

// Upload stores a new gallery image. POST /admin/gallery (multipart:
// category, image)
func (h *GalleryHandler) Upload(c echo.Context) error {
	cat, ok := model.ParseCategory(c.FormValue("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	data, ext, err := readUpload(c, "image")
	if err != nil {
		return err
	}

	key := fmt.Sprintf("gallery/%s/%s%s", cat, uuid.NewString(), ext)
	url, err := h.Storage.Upload(key, data)
	if err != nil {
		h.Log.Error().Err(err).Str("key", key).Msg("upload image failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	img := &model.GalleryImage{Category: cat, URL: url, StoragePath: key, Active: true, CreatedAt: time.Now()}
	if err := h.Gallery.Create(c.Request().Context(), img); err != nil {
		_ = h.Storage.Remove(key)
		h.Log.Error().Err(err).Msg("create gallery row failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, galleryJSON(img))
}

type updateGalleryRequest struct {
	Active    *bool `json:"active"`
	SortOrder *int  `json:"sort_order" validate:"omitempty,min=1"`
}

// Update toggles visibility or moves an image. PATCH /admin/gallery/:id
func (h *GalleryHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req updateGalleryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Active == nil && req.SortOrder == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	ctx := c.Request().Context()
	if req.Active != nil {
		if err := h.Gallery.SetActive(ctx, id, *req.Active); err != nil {
			return galleryUpdateError(err, h.Log)
		}
	}
	if req.SortOrder != nil {
		if err := h.Gallery.SetOrder(ctx, id, *req.SortOrder); err != nil {
			return galleryUpdateError(err, h.Log)
		}
	}
	img, err := h.Gallery.GetByID(ctx, id)
	if err != nil {
		return galleryUpdateError(err, h.Log)
	}
	return c.JSON(http.StatusOK, galleryJSON(img))
}

// Delete removes the row and the stored object. DELETE /admin/gallery/:id
func (h *GalleryHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	img, err := h.Gallery.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("get gallery image failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := h.Gallery.Delete(ctx, id); err != nil {
		return galleryUpdateError(err, h.Log)
	}
	if err := h.Storage.Remove(img.StoragePath); err != nil {
		// row is gone; a stray object is only a cleanup concern
		h.Log.Warn().Err(err).Str("key", img.StoragePath).Msg("remove stored object failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func galleryUpdateError(err error, log zerolog.Logger) error {
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}
	log.Error().Err(err).Msg("gallery update failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func galleryJSON(g *model.GalleryImage) echo.Map {
	return echo.Map{
		"id":         g.ID,
		"category":   g.Category,
		"url":        g.URL,
		"sort_order": g.SortOrder,
		"active":     g.Active,
	}
}

func galleryJSONList(items []*model.GalleryImage) []echo.Map {
	out := make([]echo.Map, 0, len(items))
	for _, g := range items {
		out = append(out, galleryJSON(g))
	}
	return out
}

// readUpload pulls one multipart file into memory, enforcing the size
// cap and returning the cleaned extension.
func readUpload(c echo.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, field+" file is required")
	}
	if fh.Size > maxUploadBytes {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}
	if len(data) > maxUploadBytes {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}
	ext := path.Ext(fh.Filename)
	if len(ext) > 10 {
		ext = ""
	}
	return data, ext, nil
}
