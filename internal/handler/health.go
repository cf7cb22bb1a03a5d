package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by monitoring to verify that
// the service is up. It deliberately avoids touching the database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
