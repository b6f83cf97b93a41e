package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-marketplace/internal/repository"
)

// PublicHandler exposes the unauthenticated catalog browse endpoints.
type PublicHandler struct {
	Cars *repository.CarRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(cars *repository.CarRepo) *PublicHandler {
	if cars == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Cars: cars}
}

// ListCars handles GET /api/user/cars. It returns every listing
// currently flagged available, optionally filtered by ?location=.
func (h *PublicHandler) ListCars(c echo.Context) error {
	cars, err := h.Cars.ListAvailable(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load cars")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "cars": cars})
}

// GetCar handles GET /api/user/cars/:id for the listing detail page.
// Hidden or disowned listings are still returned; the front end decides
// what to render for them.
func (h *PublicHandler) GetCar(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return fail(c, http.StatusOK, "invalid car id")
	}
	car, err := h.Cars.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return fail(c, http.StatusNotFound, "Car not found")
		}
		return fail(c, http.StatusInternalServerError, "failed to load car")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "car": car})
}
