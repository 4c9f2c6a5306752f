package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health handles GET /healthz requests.
func Health(c echo.Context) error {
	return Success(c, http.StatusOK, "ok", nil)
}
