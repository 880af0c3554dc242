package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/middleware"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
)

// VisitorHandler counts site visitors. The VisitorID middleware supplies
// a stable per-browser UUID; the repository makes counting idempotent
// per visitor per day.
type VisitorHandler struct {
	Visitors *repository.VisitorRepo
	Log      zerolog.Logger
}

// NewVisitorHandler wires the visitor handler.
func NewVisitorHandler(v *repository.VisitorRepo, log zerolog.Logger) *VisitorHandler {
	return &VisitorHandler{Visitors: v, Log: log}
}

// Record registers today's visit for the calling browser. POST /v1/visits
func (h *VisitorHandler) Record(c echo.Context) error {
	visitorID := middleware.VisitorFrom(c)
	if visitorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing visitor id")
	}
	first, err := h.Visitors.RecordVisit(c.Request().Context(), time.Now(), visitorID)
	if err != nil {
		h.Log.Error().Err(err).Msg("record visit failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"counted": first})
}

// Count returns today's and the all-time visitor counts.
// GET /v1/visits/count
func (h *VisitorHandler) Count(c echo.Context) error {
	today, total, err := h.Visitors.Counts(c.Request().Context(), time.Now())
	if err != nil {
		h.Log.Error().Err(err).Msg("load visitor counts failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"today": today, "total": total})
}
