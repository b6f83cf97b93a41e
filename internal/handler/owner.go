package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/repository"
)

// OwnerHandler bundles repositories for owners to manage their
// listings and profile. Role enforcement for the car endpoints happens
// in middleware; ChangeRole is the one endpoint any authenticated user
// may call.
type OwnerHandler struct {
	Users    *repository.UserRepo
	Cars     *repository.CarRepo
	Bookings *repository.BookingRepo
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any
// dependency is nil.
func NewOwnerHandler(users *repository.UserRepo, cars *repository.CarRepo, bookings *repository.BookingRepo) *OwnerHandler {
	if users == nil || cars == nil || bookings == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{Users: users, Cars: cars, Bookings: bookings}
}

// ChangeRole handles POST /api/owner/change-role. Any authenticated
// customer may promote themselves to owner in order to list cars. The
// transition is one-directional.
func (h *OwnerHandler) ChangeRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if err := h.Users.UpgradeToOwner(c.Request().Context(), uid); err != nil {
		return fail(c, http.StatusInternalServerError, "role change failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Now you can list cars"})
}

type addCarReq struct {
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	Category        string  `json:"category"`
	Transmission    string  `json:"transmission"`
	FuelType        string  `json:"fuelType"`
	SeatingCapacity int     `json:"seatingCapacity"`
	PricePerDay     float64 `json:"pricePerDay"`
	Location        string  `json:"location"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"image"`
}

// AddCar handles POST /api/owner/add-car. The image is already hosted
// externally; only its URL is stored.
func (h *OwnerHandler) AddCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req addCarReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusOK, "invalid request body")
	}
	if strings.TrimSpace(req.Brand) == "" || strings.TrimSpace(req.Model) == "" ||
		strings.TrimSpace(req.Location) == "" {
		return fail(c, http.StatusOK, "brand, model and location are required")
	}
	if req.PricePerDay <= 0 {
		return fail(c, http.StatusOK, "pricePerDay must be positive")
	}

	car := &model.Car{
		OwnerID:         &uid,
		Brand:           strings.TrimSpace(req.Brand),
		Model:           strings.TrimSpace(req.Model),
		Year:            req.Year,
		Category:        req.Category,
		Transmission:    req.Transmission,
		FuelType:        req.FuelType,
		SeatingCapacity: req.SeatingCapacity,
		PricePerDay:     req.PricePerDay,
		Location:        strings.TrimSpace(req.Location),
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		IsAvailable:     true,
	}
	if err := h.Cars.Create(c.Request().Context(), car); err != nil {
		return fail(c, http.StatusInternalServerError, "failed to add car")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Car added successfully", "car": car})
}

// ListCars handles GET /api/owner/cars. It includes listings currently
// hidden from search.
func (h *OwnerHandler) ListCars(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	cars, err := h.Cars.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load cars")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "cars": cars})
}

type carIDReq struct {
	CarID uint64 `json:"carId"`
}

// ToggleCar handles POST /api/owner/toggle-car. It flips the listing's
// availability flag.
func (h *OwnerHandler) ToggleCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req carIDReq
	if err := c.Bind(&req); err != nil || req.CarID == 0 {
		return fail(c, http.StatusOK, "carId is required")
	}
	if err := h.Cars.ToggleAvailability(c.Request().Context(), req.CarID, uid); err != nil {
		return carMutationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Availability Toggled"})
}

// DeleteCar handles POST /api/owner/delete-car. Deletion is soft: the
// listing is disowned and hidden but the row survives so historical
// bookings keep resolving.
func (h *OwnerHandler) DeleteCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req carIDReq
	if err := c.Bind(&req); err != nil || req.CarID == 0 {
		return fail(c, http.StatusOK, "carId is required")
	}
	if err := h.Cars.SoftDelete(c.Request().Context(), req.CarID, uid); err != nil {
		return carMutationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Car Removed"})
}

func carMutationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrCarNotFound):
		return fail(c, http.StatusNotFound, "Car not found")
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, "Unauthorized")
	}
	return fail(c, http.StatusInternalServerError, "database error")
}

type updateImageReq struct {
	ImageURL string `json:"image"`
}

// UpdateImage handles POST /api/owner/update-image. Upload and
// transformation happen on the external image host; the API stores the
// resulting URL only.
func (h *OwnerHandler) UpdateImage(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req updateImageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return fail(c, http.StatusOK, "No image provided")
	}
	if err := h.Users.UpdateImage(c.Request().Context(), uid, strings.TrimSpace(req.ImageURL)); err != nil {
		return fail(c, http.StatusInternalServerError, "image update failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Image updated", "imageUrl": req.ImageURL})
}

// Dashboard handles GET /api/owner/dashboard. Monthly revenue is the
// sum of confirmed booking prices snapshotted to this owner.
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx := c.Request().Context()

	totalCars, err := h.Cars.CountByOwner(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load dashboard")
	}
	bookings, err := h.Bookings.ListByOwner(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load dashboard")
	}
	pending, err := h.Bookings.CountByOwnerAndStatus(ctx, uid, model.StatusPending)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load dashboard")
	}
	confirmed, err := h.Bookings.CountByOwnerAndStatus(ctx, uid, model.StatusConfirmed)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load dashboard")
	}

	revenue := 0.0
	for _, b := range bookings {
		if b.Status == model.StatusConfirmed {
			revenue += b.Price
		}
	}
	recent := bookings
	if len(recent) > 3 {
		recent = recent[:3]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"dashboardData": echo.Map{
			"totalCars":         totalCars,
			"totalBookings":     len(bookings),
			"pendingBookings":   pending,
			"completedBookings": confirmed,
			"recentBookings":    recent,
			"monthlyRevenue":    revenue,
		},
	})
}
