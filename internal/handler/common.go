package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Wellstation/wellstation-sub000/internal/model"
)

// apiTimeLayout is the wire format for reservation timestamps; it is the
// local wall clock with no zone designator, matching how slots are
// stored and compared.
const apiTimeLayout = "2006-01-02 15:04"

// apiDateLayout is the wire format for calendar dates.
const apiDateLayout = "2006-01-02"

// categoryParam reads and validates the "category" query parameter.
func categoryParam(c echo.Context) (model.ServiceCategory, error) {
	cat, ok := model.ParseCategory(c.QueryParam("category"))
	if !ok {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unknown category")
	}
	return cat, nil
}

// idParam reads a numeric path parameter.
func idParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// parseLocalTime parses a timestamp in the API layout, anchored in the
// local wall clock.
func parseLocalTime(s string) (time.Time, error) {
	return time.ParseInLocation(apiTimeLayout, s, time.Local)
}

// parseLocalDate parses a calendar date in the local wall clock.
func parseLocalDate(s string) (time.Time, error) {
	return time.ParseInLocation(apiDateLayout, s, time.Local)
}

// reservationJSON renders a reservation for customer-facing responses.
// The admin memo stays internal.
func reservationJSON(r *model.Reservation) echo.Map {
	m := echo.Map{
		"uid":           r.UID,
		"category":      r.Category,
		"customer_name": r.CustomerName,
		"phone":         r.Phone,
		"scheduled_at":  r.ScheduledAt.Format(apiTimeLayout),
		"status":        r.Status,
		"created_at":    r.CreatedAt.Format(apiTimeLayout),
	}
	if r.CarModel != nil {
		m["car_model"] = *r.CarModel
	}
	if r.CarVIN != nil {
		m["car_vin"] = *r.CarVIN
	}
	if r.CarInfo != nil {
		m["car_info"] = *r.CarInfo
	}
	if r.Request != nil {
		m["request"] = *r.Request
	}
	if r.WorkDone != nil {
		m["work_done"] = *r.WorkDone
	}
	if r.NextInspectionAt != nil {
		m["next_inspection_at"] = r.NextInspectionAt.Format(apiTimeLayout)
	}
	if r.CancelReason != nil {
		m["cancel_reason"] = *r.CancelReason
	}
	if r.CancelledAt != nil {
		m["cancelled_at"] = r.CancelledAt.Format(apiTimeLayout)
	}
	return m
}

// adminReservationJSON includes the internal memo on top of the customer
// view.
func adminReservationJSON(r *model.Reservation) echo.Map {
	m := reservationJSON(r)
	m["id"] = r.ID
	if r.AdminMemo != nil {
		m["admin_memo"] = *r.AdminMemo
	}
	return m
}
