package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/schedule"
)

// SettingHandler exposes the per-category schedule configuration to the
// back office.
type SettingHandler struct {
	Settings *repository.SettingRepo
	Log      zerolog.Logger
}

// NewSettingHandler wires the setting handler.
func NewSettingHandler(s *repository.SettingRepo, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{Settings: s, Log: log}
}

// Get returns a category's schedule settings (stored values or
// defaults). GET /admin/settings/:category
func (h *SettingHandler) Get(c echo.Context) error {
	cat, ok := model.ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	sched, err := h.Settings.ScheduleFor(c.Request().Context(), cat)
	if err != nil {
		h.Log.Error().Err(err).Str("category", string(cat)).Msg("load schedule failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, scheduleJSON(cat, sched))
}

type updateScheduleRequest struct {
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	IntervalMinutes int    `json:"interval_minutes" validate:"required,min=5,max=480"`
	BufferSlots     int    `json:"disable_after_slots" validate:"min=0,max=48"`
}

// Update replaces a category's schedule settings. All four keys are
// written together. PUT /admin/settings/:category
func (h *SettingHandler) Update(c echo.Context) error {
	cat, ok := model.ParseCategory(c.Param("category"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	var req updateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := schedule.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time, expected HH:MM")
	}
	end, err := schedule.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_time, expected HH:MM")
	}
	sched := schedule.Schedule{
		Start:       start,
		End:         end,
		Interval:    time.Duration(req.IntervalMinutes) * time.Minute,
		BufferSlots: req.BufferSlots,
	}
	if err := sched.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.Settings.UpsertSchedule(c.Request().Context(), cat, sched); err != nil {
		h.Log.Error().Err(err).Str("category", string(cat)).Msg("save schedule failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, scheduleJSON(cat, sched))
}

func scheduleJSON(cat model.ServiceCategory, s schedule.Schedule) echo.Map {
	return echo.Map{
		"category":            cat,
		"start_time":          s.Start.String(),
		"end_time":            s.End.String(),
		"interval_minutes":    int(s.Interval / time.Minute),
		"disable_after_slots": s.BufferSlots,
	}
}
