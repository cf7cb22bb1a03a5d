// Package router wires the HTTP routes to their handlers. Read-only
// search and statistics routes additionally go through the response
// cache when one is configured.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/handler"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Guests   *handler.GuestHandler
	Rooms    *handler.RoomHandler
	Bookings *handler.BookingHandler
	Ratings  *handler.RatingHandler
	Stats    *handler.StatsHandler
}

// RegisterRoutes registers all application routes on e. The cache
// middleware may be nil, in which case cached routes behave like the
// rest.
func RegisterRoutes(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")

	// Guests: registration, listing, cascade deletion.
	v1.POST("/guests", h.Guests.Register)
	v1.GET("/guests", h.Guests.List)
	v1.DELETE("/guests/:id", h.Guests.Delete)

	// Rooms: administration plus the search path that joins rating
	// aggregates. Search responses are safe to cache briefly since
	// they are recomputed from committed rows on every miss.
	v1.POST("/rooms", h.Rooms.Create)
	v1.GET("/rooms", h.Rooms.List)
	if cache != nil {
		v1.GET("/rooms/search", h.Rooms.Search, cache)
	} else {
		v1.GET("/rooms/search", h.Rooms.Search)
	}

	// Bookings: the transactional core.
	v1.POST("/bookings", h.Bookings.Create)
	v1.GET("/bookings", h.Bookings.List)
	v1.GET("/bookings/:id", h.Bookings.Get)
	v1.POST("/bookings/:id/cancel", h.Bookings.Cancel)

	// Ratings.
	v1.POST("/ratings", h.Ratings.Create)
	v1.GET("/ratings", h.Ratings.List)

	// Statistics, recomputed on demand.
	if cache != nil {
		v1.GET("/stats/guests", h.Stats.Guests, cache)
		v1.GET("/stats/rooms", h.Stats.Rooms, cache)
	} else {
		v1.GET("/stats/guests", h.Stats.Guests)
		v1.GET("/stats/rooms", h.Stats.Rooms)
	}
}
