package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/repository"
	"github.com/harmyko/database-management-systems/internal/service"
)

// BookingHandler exposes booking creation, cancellation and listing.
// The transactional work lives in the booking service; the handler
// only binds input and maps typed failures to HTTP statuses so callers
// can tell a retryable rejection from a dead end.
type BookingHandler struct {
	Service  *service.BookingService
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *service.BookingService, bookings *repository.BookingRepo) *BookingHandler {
	if svc == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc, Bookings: bookings}
}

// Create handles POST /v1/bookings. The body carries the guest id, the
// delivery address and the ordered item requests. Items that cannot be
// satisfied come back under "rejected" with a reason; the booking
// succeeds as long as at least one item was accepted.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		GuestID uint64                `json:"guest_id"`
		Address service.Address       `json:"address"`
		Items   []service.ItemRequest `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.GuestID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_id is required"})
	}

	result, err := h.Service.CreateBooking(c.Request().Context(), body.GuestID, body.Address, body.Items)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGuestNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		case errors.Is(err, repository.ErrEmptyBooking):
			resp := echo.Map{"error": "booking must contain at least one room"}
			if result != nil && len(result.Rejected) > 0 {
				resp["rejected"] = result.Rejected
			}
			return c.JSON(http.StatusBadRequest, resp)
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
		}
	}
	return c.JSON(http.StatusCreated, result)
}

// Cancel handles POST /v1/bookings/:id/cancel. Cancelling twice is a
// 409; the second attempt releases nothing.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	result, err := h.Service.CancelBooking(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrAlreadyCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
		}
	}
	return c.JSON(http.StatusOK, result)
}

// List handles GET /v1/bookings. With ?active=true only bookings that
// are neither Cancelled nor CheckedOut are returned.
func (h *BookingHandler) List(c echo.Context) error {
	items, err := h.Bookings.List(c.Request().Context(), c.QueryParam("active") == "true")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/bookings/:id and returns the booking with its
// address and items.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
