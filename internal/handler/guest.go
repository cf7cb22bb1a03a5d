package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/harmyko/database-management-systems/internal/repository"
)

// emailPattern is deliberately permissive: something, an @, something,
// a dot, something. The mailbox is never verified, so a stricter
// pattern only rejects real addresses.
var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// GuestHandler exposes guest registration, listing and deletion.
type GuestHandler struct {
	Guests *repository.GuestRepo
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(guests *repository.GuestRepo) *GuestHandler {
	if guests == nil {
		panic("nil repository passed to NewGuestHandler")
	}
	return &GuestHandler{Guests: guests}
}

// Register handles POST /v1/guests. It validates the email shape,
// inserts the guest and returns the generated id. A taken email yields
// 409 with no row created.
func (h *GuestHandler) Register(c echo.Context) error {
	var body struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.FirstName = strings.TrimSpace(body.FirstName)
	body.LastName = strings.TrimSpace(body.LastName)
	if body.FirstName == "" || body.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}
	if !emailPattern.MatchString(strings.TrimSpace(body.Email)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
	}
	id, err := h.Guests.Create(c.Request().Context(), body.FirstName, body.LastName, body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register guest"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"guest_id": id})
}

// List handles GET /v1/guests.
func (h *GuestHandler) List(c echo.Context) error {
	guests, err := h.Guests.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load guests"})
	}
	items := make([]echo.Map, 0, len(guests))
	for _, g := range guests {
		items = append(items, echo.Map{
			"id":         g.ID,
			"first_name": g.FirstName,
			"last_name":  g.LastName,
			"email":      g.Email,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/guests/:id. The guest's bookings and
// ratings go with the guest via the cascading foreign keys.
func (h *GuestHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
	}
	if err := h.Guests.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrGuestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete guest"})
	}
	return c.NoContent(http.StatusNoContent)
}
