package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/queue"
	"github.com/iliyamo/car-rental-marketplace/internal/repository"
	"github.com/iliyamo/car-rental-marketplace/internal/service"
	"github.com/iliyamo/car-rental-marketplace/internal/utils"
)

// CarGetter is the single-car lookup the booking handler needs to
// enrich events. *repository.CarRepo satisfies it.
type CarGetter interface {
	GetByID(ctx context.Context, id uint64) (model.Car, error)
}

// EventPublisher pushes a booking event to the broker. May be nil, in
// which case publishing is skipped.
type EventPublisher func(ctx context.Context, ev queue.BookingCreatedEvent) error

// BookingHandler exposes the booking endpoints: availability search,
// reservation, customer/owner listings and status changes.
type BookingHandler struct {
	Avail    *service.Availability
	Bookings *service.Bookings
	Cars     CarGetter
	Publish  EventPublisher
}

// NewBookingHandler constructs a BookingHandler. Publish may be nil.
func NewBookingHandler(avail *service.Availability, bookings *service.Bookings, cars CarGetter, publish EventPublisher) *BookingHandler {
	if avail == nil || bookings == nil || cars == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Avail: avail, Bookings: bookings, Cars: cars, Publish: publish}
}

type checkAvailabilityReq struct {
	Location   string `json:"location"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

// parseRange parses and orders the requested date range. The ok result
// is false when either date is malformed or return precedes pickup.
func parseRange(pickupStr, returnStr string) (pickup, ret time.Time, ok bool) {
	pickup, err := utils.ParseDate(pickupStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	ret, err = utils.ParseDate(returnStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if utils.NormalizeReturn(ret).Before(utils.NormalizePickup(pickup)) {
		return time.Time{}, time.Time{}, false
	}
	return pickup, ret, true
}

// CheckAvailability handles POST /api/bookings/check-availability. It
// returns the cars listed at the location that are free for the range.
// The result shown here is advisory; reservation re-verifies.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	var req checkAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusOK, "invalid request body")
	}
	if req.Location == "" {
		return fail(c, http.StatusOK, "location is required")
	}
	pickup, ret, ok := parseRange(req.PickupDate, req.ReturnDate)
	if !ok {
		return fail(c, http.StatusOK, "invalid pickup or return date")
	}

	cars, err := h.Avail.SearchAvailable(c.Request().Context(), req.Location, pickup, ret)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "availability check failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "availableCars": cars})
}

type createBookingReq struct {
	Car        uint64 `json:"car"`
	PickupDate string `json:"pickupDate"`
	ReturnDate string `json:"returnDate"`
}

// CreateBooking handles POST /api/bookings/create. The reservation is
// atomic: the availability re-check and the insert run inside one
// transaction holding the car's row lock, so two racing customers
// cannot both book an overlapping range.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.Car == 0 {
		return fail(c, http.StatusOK, "car is required")
	}
	pickup, ret, ok := parseRange(req.PickupDate, req.ReturnDate)
	if !ok {
		return fail(c, http.StatusOK, "invalid pickup or return date")
	}

	booking, err := h.Bookings.Reserve(c.Request().Context(), uid, req.Car, pickup, ret)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCarNotFound):
			return fail(c, http.StatusNotFound, "Car not found")
		case errors.Is(err, repository.ErrConflict):
			return fail(c, http.StatusOK, "Sorry, this car was just booked by someone else.")
		}
		return fail(c, http.StatusInternalServerError, "booking failed")
	}

	h.publishCreated(booking)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Booking Created Successfully",
		"booking": booking,
	})
}

// publishCreated emits the booking.created event. Best-effort: failures
// are logged and never affect the reservation outcome.
func (h *BookingHandler) publishCreated(b *model.Booking) {
	if h.Publish == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.BookingCreatedEvent{
		BookingID:  b.ID,
		CarID:      b.CarID,
		OwnerID:    b.OwnerID,
		CustomerID: b.CustomerID,
		PickupAt:   b.PickupAt.Format(time.RFC3339),
		ReturnAt:   b.ReturnAt.Format(time.RFC3339),
		Price:      b.Price,
		CreatedAt:  b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if car, err := h.Cars.GetByID(ctx, b.CarID); err == nil {
		ev.CarName = fmt.Sprintf("%s %s", car.Brand, car.Model)
		ev.Location = car.Location
	}
	if err := h.Publish(ctx, ev); err != nil {
		log.Printf("booking: publish event failed: %v", err)
	}
}

// GetUserBookings handles GET /api/bookings/user. Bookings come back
// newest-first with their car snapshot, which may describe a
// soft-deleted listing.
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	bookings, err := h.Bookings.ListForCustomer(c.Request().Context(), uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

// GetOwnerBookings handles GET /api/bookings/owner. Only owners may
// call it; customers get 403.
func (h *BookingHandler) GetOwnerBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if getRole(c) != model.RoleOwner {
		return fail(c, http.StatusForbidden, "Access Denied")
	}
	bookings, err := h.Bookings.ListForOwner(c.Request().Context(), uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to load bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

type changeStatusReq struct {
	BookingID uint64 `json:"bookingId"`
	Status    string `json:"status"`
}

// ChangeStatus handles POST /api/bookings/change-status. Only the owner
// snapshotted on the booking may change it; beyond membership in
// {pending, confirmed, cancelled} no transition rule applies.
func (h *BookingHandler) ChangeStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req changeStatusReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return fail(c, http.StatusOK, "bookingId is required")
	}

	status := model.BookingStatus(req.Status)
	err = h.Bookings.SetStatus(c.Request().Context(), uid, req.BookingID, status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return fail(c, http.StatusOK, "invalid status")
		case errors.Is(err, repository.ErrBookingNotFound):
			return fail(c, http.StatusNotFound, "Not found")
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, "Unauthorized")
		}
		return fail(c, http.StatusInternalServerError, "status update failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": fmt.Sprintf("Status updated to %s", status)})
}
