package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func Health(c echo.Context) error {
	return respond(c, http.StatusOK, "OK", map[string]string{"status": "ok"})
}
