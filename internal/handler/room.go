package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/model"
	"github.com/harmyko/database-management-systems/internal/repository"
)

// RoomHandler exposes room administration, listing and search.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms}
}

// Create handles POST /v1/rooms. Prices are accepted in whole currency
// units (e.g. euros) and stored as cents.
func (h *RoomHandler) Create(c echo.Context) error {
	var body struct {
		RoomNumber   string  `json:"room_number"`
		Price        float64 `json:"price"`
		Availability uint32  `json:"availability"`
		Description  string  `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.RoomNumber = strings.TrimSpace(body.RoomNumber)
	if body.RoomNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number is required"})
	}
	if body.Price < 0 || body.Price > math.MaxUint32/100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}
	priceCents := uint32(math.Round(body.Price * 100))
	id, err := h.Rooms.Create(c.Request().Context(), body.RoomNumber, priceCents, body.Availability, body.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"room_id": id})
}

// List handles GET /v1/rooms. With ?available=true only rooms that
// still have bookable nights are returned, matching the room picker
// shown while building a booking.
func (h *RoomHandler) List(c echo.Context) error {
	var (
		rooms []model.Room
		err   error
	)
	if c.QueryParam("available") == "true" {
		rooms, err = h.Rooms.ListAvailable(c.Request().Context())
	} else {
		rooms, err = h.Rooms.List(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	items := make([]echo.Map, 0, len(rooms))
	for _, rm := range rooms {
		items = append(items, echo.Map{
			"id":           rm.ID,
			"room_number":  rm.RoomNumber,
			"price_cents":  rm.PriceCents,
			"price":        float64(rm.PriceCents) / 100.0,
			"availability": rm.Availability,
			"description":  rm.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Search handles GET /v1/rooms/search. Two modes:
// ?number=<substring> matches room numbers
// case-insensitively, ?min_price=&max_price= filters on an inclusive
// nightly price range. Both return rating aggregates per room.
func (h *RoomHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	if number := c.QueryParam("number"); number != "" {
		rows, err := h.Rooms.SearchByNumber(ctx, number)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search rooms"})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": rows})
	}

	minStr, maxStr := c.QueryParam("min_price"), c.QueryParam("max_price")
	if minStr == "" && maxStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide number or min_price/max_price"})
	}
	minPrice, err := strconv.ParseFloat(minStr, 64)
	if err != nil || minPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
	}
	maxPrice, err := strconv.ParseFloat(maxStr, 64)
	if err != nil || maxPrice < minPrice {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
	}
	rows, err := h.Rooms.SearchByPriceRange(ctx,
		uint32(math.Round(minPrice*100)), uint32(math.Round(maxPrice*100)))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to search rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rows})
}
