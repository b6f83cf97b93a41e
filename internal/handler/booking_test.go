package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/car-rental-marketplace/internal/mocks"
	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/repository"
	"github.com/iliyamo/car-rental-marketplace/internal/service"
)

type stubCars struct {
	car model.Car
	err error
}

func (s stubCars) GetByID(context.Context, uint64) (model.Car, error) { return s.car, s.err }

func newBookingTestHandler(cars *mocks.CarStore, store *mocks.BookingStore) *BookingHandler {
	return NewBookingHandler(
		service.NewAvailability(cars, store),
		service.NewBookings(store),
		stubCars{},
		nil,
	)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, uid uint64, role string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set("user_id", uid)
		c.Set("role", role)
	}
	assert.NoError(t, h(c))

	var out map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestCheckAvailabilityReturnsFreeCars(t *testing.T) {
	cars := new(mocks.CarStore)
	cars.On("ListAvailable", mock.Anything, "Berlin").Return([]model.Car{{ID: 10}, {ID: 11}}, nil)
	store := new(mocks.BookingStore)
	store.On("CountOverlapping", mock.Anything, uint64(10), mock.Anything, mock.Anything).Return(0, nil)
	store.On("CountOverlapping", mock.Anything, uint64(11), mock.Anything, mock.Anything).Return(1, nil)
	h := newBookingTestHandler(cars, store)

	body := `{"location":"Berlin","pickupDate":"2026-03-05","returnDate":"2026-03-07"}`
	rec, out := doJSON(t, h.CheckAvailability, http.MethodPost, "/api/bookings/check-availability", body, 0, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	free, ok := out["availableCars"].([]any)
	if assert.True(t, ok) {
		assert.Len(t, free, 1)
	}
}

func TestCheckAvailabilityRequiresLocation(t *testing.T) {
	h := newBookingTestHandler(new(mocks.CarStore), new(mocks.BookingStore))

	body := `{"pickupDate":"2026-03-05","returnDate":"2026-03-07"}`
	rec, out := doJSON(t, h.CheckAvailability, http.MethodPost, "/api/bookings/check-availability", body, 0, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestCheckAvailabilityRejectsInvertedRange(t *testing.T) {
	h := newBookingTestHandler(new(mocks.CarStore), new(mocks.BookingStore))

	body := `{"location":"Berlin","pickupDate":"2026-03-07","returnDate":"2026-03-05"}`
	rec, out := doJSON(t, h.CheckAvailability, http.MethodPost, "/api/bookings/check-availability", body, 0, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestCreateBookingSuccess(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("Reserve", mock.Anything, uint64(7), uint64(3), mock.Anything, mock.Anything).
		Return(&model.Booking{ID: 42, CarID: 3, CustomerID: 7, Status: model.StatusPending}, nil)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	body := `{"car":3,"pickupDate":"2026-03-05","returnDate":"2026-03-07"}`
	rec, out := doJSON(t, h.CreateBooking, http.MethodPost, "/api/bookings/create", body, 7, model.RoleCustomer)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Booking Created Successfully", out["message"])
	assert.NotNil(t, out["booking"])
}

func TestCreateBookingConflict(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrConflict)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	body := `{"car":3,"pickupDate":"2026-03-05","returnDate":"2026-03-07"}`
	rec, out := doJSON(t, h.CreateBooking, http.MethodPost, "/api/bookings/create", body, 7, model.RoleCustomer)

	// Business failure: HTTP 200 with the success flag down.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Sorry, this car was just booked by someone else.", out["message"])
}

func TestCreateBookingUnknownCar(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repository.ErrCarNotFound)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	body := `{"car":999,"pickupDate":"2026-03-05","returnDate":"2026-03-07"}`
	rec, out := doJSON(t, h.CreateBooking, http.MethodPost, "/api/bookings/create", body, 7, model.RoleCustomer)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Car not found", out["message"])
}

func TestGetOwnerBookingsRequiresOwnerRole(t *testing.T) {
	h := newBookingTestHandler(new(mocks.CarStore), new(mocks.BookingStore))

	rec, out := doJSON(t, h.GetOwnerBookings, http.MethodGet, "/api/bookings/owner", "", 7, model.RoleCustomer)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Access Denied", out["message"])
}

func TestGetOwnerBookingsReturnsDetails(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("ListByOwner", mock.Anything, uint64(5)).
		Return([]model.BookingDetail{{Booking: model.Booking{ID: 42, OwnerID: 5}}}, nil)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	rec, out := doJSON(t, h.GetOwnerBookings, http.MethodGet, "/api/bookings/owner", "", 5, model.RoleOwner)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.NotNil(t, out["bookings"])
}

func TestChangeStatusUnknownBooking(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("GetByID", mock.Anything, uint64(42)).Return(nil, repository.ErrBookingNotFound)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	body := `{"bookingId":42,"status":"confirmed"}`
	rec, out := doJSON(t, h.ChangeStatus, http.MethodPost, "/api/bookings/change-status", body, 5, model.RoleOwner)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", out["message"])
}

func TestChangeStatusForbiddenForNonOwner(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("GetByID", mock.Anything, uint64(42)).Return(&model.Booking{ID: 42, OwnerID: 5}, nil)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	body := `{"bookingId":42,"status":"confirmed"}`
	rec, out := doJSON(t, h.ChangeStatus, http.MethodPost, "/api/bookings/change-status", body, 99, model.RoleOwner)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", out["message"])
}

func TestChangeStatusInvalidValue(t *testing.T) {
	h := newBookingTestHandler(new(mocks.CarStore), new(mocks.BookingStore))

	body := `{"bookingId":42,"status":"shipped"}`
	rec, out := doJSON(t, h.ChangeStatus, http.MethodPost, "/api/bookings/change-status", body, 5, model.RoleOwner)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestChangeStatusSuccess(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("GetByID", mock.Anything, uint64(42)).Return(&model.Booking{ID: 42, OwnerID: 5}, nil)
	store.On("UpdateStatus", mock.Anything, uint64(42), model.StatusCancelled).Return(nil)
	h := newBookingTestHandler(new(mocks.CarStore), store)

	body := `{"bookingId":42,"status":"cancelled"}`
	rec, out := doJSON(t, h.ChangeStatus, http.MethodPost, "/api/bookings/change-status", body, 5, model.RoleOwner)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Status updated to cancelled", out["message"])
	store.AssertExpectations(t)
}
