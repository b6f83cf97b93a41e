package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/car-rental-marketplace/internal/mocks"
	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/repository"
)

func TestReserveNormalizesBeforeStore(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := NewBookings(store)

	wantPickup := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	wantReturn := time.Date(2026, 3, 7, 23, 59, 59, 999000000, time.UTC)
	want := &model.Booking{ID: 42, CarID: 3, CustomerID: 7, Status: model.StatusPending}
	store.On("Reserve", mock.Anything, uint64(7), uint64(3), wantPickup, wantReturn).Return(want, nil)

	got, err := svc.Reserve(context.Background(), 7, 3,
		time.Date(2026, 3, 5, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 7, 16, 45, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	store.AssertExpectations(t)
}

func TestReservePassesThroughSentinels(t *testing.T) {
	for _, sentinel := range []error{repository.ErrCarNotFound, repository.ErrConflict} {
		store := new(mocks.BookingStore)
		store.On("Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, sentinel)
		svc := NewBookings(store)

		_, err := svc.Reserve(context.Background(), 7, 3, day(5), day(6))
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := NewBookings(store)

	err := svc.SetStatus(context.Background(), 1, 42, model.BookingStatus("shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	store.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatusUnknownBooking(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("GetByID", mock.Anything, uint64(42)).Return(nil, repository.ErrBookingNotFound)
	svc := NewBookings(store)

	err := svc.SetStatus(context.Background(), 1, 42, model.StatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestSetStatusOnlySnapshotOwner(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("GetByID", mock.Anything, uint64(42)).Return(&model.Booking{ID: 42, OwnerID: 5}, nil)
	svc := NewBookings(store)

	err := svc.SetStatus(context.Background(), 99, 42, model.StatusCancelled)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatusSuccess(t *testing.T) {
	store := new(mocks.BookingStore)
	store.On("GetByID", mock.Anything, uint64(42)).Return(&model.Booking{ID: 42, OwnerID: 5}, nil)
	store.On("UpdateStatus", mock.Anything, uint64(42), model.StatusConfirmed).Return(nil)
	svc := NewBookings(store)

	err := svc.SetStatus(context.Background(), 5, 42, model.StatusConfirmed)
	assert.NoError(t, err)
	store.AssertExpectations(t)
}
