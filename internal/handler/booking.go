package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Wellstation/wellstation-sub000/internal/model"
	"github.com/Wellstation/wellstation-sub000/internal/queue"
	"github.com/Wellstation/wellstation-sub000/internal/repository"
	"github.com/Wellstation/wellstation-sub000/internal/schedule"
	queue_publisher "github.com/Wellstation/wellstation-sub000/internal/service"
)

// verificationFreshness bounds how old a consumed verification code may
// be when it authorizes a booking or a history lookup.
const verificationFreshness = 30 * time.Minute

// BookingHandler serves the customer reservation flow: availability
// queries, creation, lookup and cancellation.
type BookingHandler struct {
	Reservations  *repository.ReservationRepo
	Settings      *repository.SettingRepo
	Verifications *repository.VerificationRepo
	Publisher     *queue_publisher.Publisher
	Log           zerolog.Logger
}

// NewBookingHandler wires the booking handler.
func NewBookingHandler(res *repository.ReservationRepo, set *repository.SettingRepo,
	ver *repository.VerificationRepo, pub *queue_publisher.Publisher, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{Reservations: res, Settings: set, Verifications: ver, Publisher: pub, Log: log}
}

// Availability returns the open slots of a category for one calendar
// date. GET /v1/availability?category=REPAIR&date=2026-09-01
func (h *BookingHandler) Availability(c echo.Context) error {
	cat, err := categoryParam(c)
	if err != nil {
		return err
	}
	date, err := parseLocalDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	ctx := c.Request().Context()
	sched, err := h.Settings.ScheduleFor(ctx, cat)
	if err != nil {
		h.Log.Error().Err(err).Str("category", string(cat)).Msg("load schedule failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	// Bookings on adjacent days can shadow edge slots through the buffer,
	// so the fetch window extends beyond the day by one buffer radius.
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)
	booked, err := h.Reservations.BookedTimes(ctx, cat,
		dayStart.Add(-sched.Buffer()), dayEnd.Add(sched.Buffer()))
	if err != nil {
		h.Log.Error().Err(err).Msg("load booked times failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	open := sched.Available(date, booked, time.Now())
	slots := make([]string, 0, len(open))
	for _, t := range open {
		slots = append(slots, t.Format(apiTimeLayout))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"category": cat,
		"date":     date.Format(apiDateLayout),
		"slots":    slots,
	})
}

type createReservationRequest struct {
	Category     string  `json:"category" validate:"required"`
	CustomerName string  `json:"customer_name" validate:"required,max=100"`
	Phone        string  `json:"phone" validate:"required,min=9,max=20"`
	ScheduledAt  string  `json:"scheduled_at" validate:"required"`
	CarModel     *string `json:"car_model" validate:"omitempty,max=100"`
	CarVIN       *string `json:"car_vin" validate:"omitempty,max=32"`
	CarInfo      *string `json:"car_info" validate:"omitempty,max=500"`
	Request      *string `json:"request" validate:"omitempty,max=1000"`
}

// Create books a slot. POST /v1/reservations
func (h *BookingHandler) Create(c echo.Context) error {
	var req createReservationRequest
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
	at, err := parseLocalTime(req.ScheduledAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scheduled_at, expected YYYY-MM-DD HH:MM")
	}

	ctx := c.Request().Context()
	verified, err := h.Verifications.HasVerified(ctx, req.Phone, verificationFreshness)
	if err != nil {
		h.Log.Error().Err(err).Msg("verification lookup failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !verified {
		return echo.NewHTTPError(http.StatusForbidden, "phone not verified")
	}

	sched, err := h.Settings.ScheduleFor(ctx, cat)
	if err != nil {
		h.Log.Error().Err(err).Str("category", string(cat)).Msg("load schedule failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !sched.Aligned(at) {
		return echo.NewHTTPError(http.StatusBadRequest, "time is outside the slot grid")
	}

	lo, hi := sched.Window(at)
	booked, err := h.Reservations.BookedTimes(ctx, cat, lo, hi.Add(time.Second))
	if err != nil {
		h.Log.Error().Err(err).Msg("load booked times failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	// Pre-check for a friendly error; CreateIfFree re-checks inside the
	// transaction and stays the authority under concurrency.
	if err := sched.CheckSlot(at, booked, time.Now()); err != nil {
		return slotError(err)
	}

	res := &model.Reservation{
		Category:     cat,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		ScheduledAt:  at,
		CarModel:     req.CarModel,
		CarVIN:       req.CarVIN,
		CarInfo:      req.CarInfo,
		Request:      req.Request,
	}
	if err := h.Reservations.CreateIfFree(ctx, res, sched.Buffer()); err != nil {
		if errors.Is(err, schedule.ErrSlotTaken) {
			return slotError(err)
		}
		h.Log.Error().Err(err).Msg("create reservation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publishEvent(queue.EventConfirmed, res, "")
	return c.JSON(http.StatusCreated, reservationJSON(res))
}

// Get fetches one reservation by public UID. GET /v1/reservations/:uid
func (h *BookingHandler) Get(c echo.Context) error {
	res, err := h.Reservations.GetByUID(c.Request().Context(), c.Param("uid"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "reservation not found")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("get reservation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, reservationJSON(res))
}

// History lists a phone number's reservations after a fresh verification.
// GET /v1/reservations?phone=01012345678
func (h *BookingHandler) History(c echo.Context) error {
	phone := c.QueryParam("phone")
	if phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone is required")
	}
	ctx := c.Request().Context()
	verified, err := h.Verifications.HasVerified(ctx, phone, verificationFreshness)
	if err != nil {
		h.Log.Error().Err(err).Msg("verification lookup failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if !verified {
		return echo.NewHTTPError(http.StatusForbidden, "phone not verified")
	}
	items, err := h.Reservations.ListByPhone(ctx, phone)
	if err != nil {
		h.Log.Error().Err(err).Msg("list reservations failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	out := make([]echo.Map, 0, len(items))
	for _, r := range items {
		out = append(out, reservationJSON(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type cancelRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
	Notify bool    `json:"notify"`
}

// Cancel soft-cancels a reservation. DELETE /v1/reservations/:uid
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req cancelRequest
	// body is optional on DELETE
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
		h.publishEvent(queue.EventCancelled, res, reason)
	}
	return c.JSON(http.StatusOK, reservationJSON(res))
}

func (h *BookingHandler) publishEvent(typ string, res *model.Reservation, reason string) {
	publishReservationEvent(h.Publisher, h.Log, typ, res, reason)
}

// publishReservationEvent fires a lifecycle event without blocking the
// response. Publish failures are logged only; the reservation mutation
// already committed.
func publishReservationEvent(pub *queue_publisher.Publisher, log zerolog.Logger, typ string, res *model.Reservation, reason string) {
	ev := queue.ReservationEvent{
		Type:        typ,
		UID:         res.UID,
		Category:    string(res.Category),
		Name:        res.CustomerName,
		Phone:       res.Phone,
		ScheduledAt: res.ScheduledAt.Format(apiTimeLayout),
		Reason:      reason,
		OccurredAt:  time.Now().Format(apiTimeLayout),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pub.PublishReservationEvent(ctx, ev); err != nil {
			log.Warn().Err(err).Str("uid", ev.UID).Str("type", typ).Msg("event publish failed")
		}
	}()
}

// slotError maps engine sentinels onto the documented status codes:
// a taken slot conflicts (409), a past slot is a bad request (400).
func slotError(err error) error {
	switch {
	case errors.Is(err, schedule.ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, "slot already taken")
	case errors.Is(err, schedule.ErrPastSlot):
		return echo.NewHTTPError(http.StatusBadRequest, "past time slot")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
