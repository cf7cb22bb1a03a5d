package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/model"
	"github.com/harmyko/database-management-systems/internal/repository"
)

// RatingHandler exposes rating submission and listing. Guest and room
// existence are validated up front so a missing id reads as a 404
// instead of an opaque foreign-key failure.
type RatingHandler struct {
	Ratings *repository.RatingRepo
	Guests  *repository.GuestRepo
	Rooms   *repository.RoomRepo
}

// NewRatingHandler constructs a RatingHandler.
func NewRatingHandler(ratings *repository.RatingRepo, guests *repository.GuestRepo, rooms *repository.RoomRepo) *RatingHandler {
	if ratings == nil || guests == nil || rooms == nil {
		panic("nil repository passed to NewRatingHandler")
	}
	return &RatingHandler{Ratings: ratings, Guests: guests, Rooms: rooms}
}

// Create handles POST /v1/ratings. One rating per (guest, room) pair;
// a second submission is a 409.
func (h *RatingHandler) Create(c echo.Context) error {
	var body struct {
		GuestID uint64 `json:"guest_id"`
		RoomID  uint64 `json:"room_id"`
		Rating  uint8  `json:"rating"`
		Review  string `json:"review"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Rating < 1 || body.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}
	ctx := c.Request().Context()
	if _, err := h.Guests.GetByID(ctx, body.GuestID); err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check guest"})
	}
	if _, err := h.Rooms.GetByID(ctx, body.RoomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check room"})
	}
	rt := model.Rating{GuestID: body.GuestID, RoomID: body.RoomID, Score: body.Rating, Review: body.Review}
	if err := h.Ratings.Create(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrRatingExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "guest has already rated this room"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rating"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "created"})
}

// List handles GET /v1/ratings.
func (h *RatingHandler) List(c echo.Context) error {
	items, err := h.Ratings.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ratings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
