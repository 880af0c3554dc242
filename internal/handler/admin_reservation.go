package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/queue"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	queue_publisher "github.com/Wellstation/wellstation-sub000/internal/service"
)

// AdminReservationHandler serves the back-office reservation views:
// filtered listing, visit completion and cancellation on behalf of the
// customer.
type AdminReservationHandler struct {
	Reservations *repository.ReservationRepo
	Publisher    *queue_publisher.Publisher
	Log          zerolog.Logger
}

// NewAdminReservationHandler wires the admin reservation handler.
func NewAdminReservationHandler(res *repository.ReservationRepo, pub *queue_publisher.Publisher, log zerolog.Logger) *AdminReservationHandler {
	return &AdminReservationHandler{Reservations: res, Publisher: pub, Log: log}
}

// List returns reservations matching the query filters.
// GET /admin/reservations?category=&status=&from=&to=&q=&limit=&offset=
func (h *AdminReservationHandler) List(c echo.Context) error {
	var f repository.ListFilter
	if raw := c.QueryParam("category"); raw != "" {
		cat, ok := model.ParseCategory(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown category")
		}
		f.Category = &cat
	}
	if raw := c.QueryParam("status"); raw != "" {
		switch raw {
		case model.StatusReserved, model.StatusVisited, model.StatusCancelled:
			f.Status = &raw
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, err := parseLocalDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := parseLocalDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = &t
	}
	f.Search = c.QueryParam("q")
	f.Limit = 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		f.Limit = n
	}
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		f.Offset = n
	}

	items, err := h.Reservations.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error().Err(err).Msg("list reservations failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	out := make([]echo.Map, 0, len(items))
	for _, r := range items {
		out = append(out, adminReservationJSON(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type completeVisitRequest struct {
	WorkDone         *string `json:"work_done" validate:"omitempty,max=2000"`
	NextInspectionAt *string `json:"next_inspection_at"`
	AdminMemo        *string `json:"admin_memo" validate:"omitempty,max=1000"`
}

// CompleteVisit marks a reservation VISITED with the post-visit fields.
// POST /admin/reservations/:id/visit
func (h *AdminReservationHandler) CompleteVisit(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req completeVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	var next *time.Time
	if req.NextInspectionAt != nil {
		t, err := parseLocalTime(*req.NextInspectionAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid next_inspection_at, expected YYYY-MM-DD HH:MM")
		}
		next = &t
	}
	err = h.Reservations.MarkVisited(c.Request().Context(), id, req.WorkDone, next, req.AdminMemo)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "reservation not found or not in reserved state")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("mark visited failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel cancels a reservation on the customer's behalf and optionally
// notifies them. DELETE /admin/reservations/:uid
func (h *AdminReservationHandler) Cancel(c echo.Context) error {
	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		req = cancelRequest{}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	res, err := h.Reservations.Cancel(c.Request().Context(), c.Param("uid"), req.Reason)
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "reservation not found or not cancellable")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("cancel reservation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if req.Notify {
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		publishReservationEvent(h.Publisher, h.Log, queue.EventCancelled, res, reason)
	}
	return c.JSON(http.StatusOK, adminReservationJSON(res))
}
