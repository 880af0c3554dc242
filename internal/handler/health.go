package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds 200 while the process is serving; load balancers and
// uptime checks hit this endpoint.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
