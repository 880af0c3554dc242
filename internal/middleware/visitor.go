package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// VisitorCookieName identifies a browser across requests for the daily
// visitor counter. The value is an opaque UUID with no link to any
// personal data.
const VisitorCookieName = "wsid"

// visitorIDKey is the context key under which the visitor ID is stored.
const visitorIDKey = "visitor_id"

// VisitorID assigns a UUID cookie to first-time browsers and exposes the
// ID to handlers via c.Get("visitor_id"). The cookie lives for a year so
// the same browser counts once per day rather than once per request.
func VisitorID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if ck, err := c.Cookie(VisitorCookieName); err == nil && ck.Value != "" {
				if _, err := uuid.Parse(ck.Value); err == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     VisitorCookieName,
					Value:    id,
					Path:     "/",
					Expires:  time.Now().Add(365 * 24 * time.Hour),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(visitorIDKey, id)
			return next(c)
		}
	}
}

// VisitorFrom returns the visitor ID stored by VisitorID, or "" when the
// middleware did not run.
func VisitorFrom(c echo.Context) string {
	if v, ok := c.Get(visitorIDKey).(string); ok {
		return v
	}
	return ""
}
