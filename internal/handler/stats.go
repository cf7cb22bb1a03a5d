package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/repository"
)

// StatsHandler exposes the read-only guest and room statistics. Both
// are recomputed from the base tables on every request.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(stats *repository.StatsRepo) *StatsHandler {
	if stats == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{Stats: stats}
}

// Guests handles GET /v1/stats/guests.
func (h *StatsHandler) Guests(c echo.Context) error {
	items, err := h.Stats.GuestStatistics(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load guest statistics"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Rooms handles GET /v1/stats/rooms.
func (h *StatsHandler) Rooms(c echo.Context) error {
	items, err := h.Stats.RoomStatistics(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room statistics"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
