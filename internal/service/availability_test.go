package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/car-rental-marketplace/internal/mocks"
	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/utils"
)

func day(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

// fakeBookingStore keeps bookings in memory and answers overlap counts
// with the same inclusive predicate the SQL layer uses. Safe for the
// concurrent fan-out in SearchAvailable.
type fakeBookingStore struct {
	mocks.BookingStore

	mu       sync.Mutex
	bookings []model.Booking
}

func (f *fakeBookingStore) CountOverlapping(_ context.Context, carID uint64, pickup, ret time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bookings {
		if b.CarID != carID || b.Status == model.StatusCancelled {
			continue
		}
		if !b.PickupAt.After(ret) && !b.ReturnAt.Before(pickup) {
			n++
		}
	}
	return n, nil
}

func TestCarAvailableNormalizesRange(t *testing.T) {
	store := new(mocks.BookingStore)
	svc := NewAvailability(new(mocks.CarStore), store)

	// Raw timestamps must reach the store pinned to day boundaries.
	wantPickup := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	wantReturn := time.Date(2026, 3, 7, 23, 59, 59, 999000000, time.UTC)
	store.On("CountOverlapping", mock.Anything, uint64(9), wantPickup, wantReturn).Return(0, nil)

	free, err := svc.CarAvailable(context.Background(),
		9,
		time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 7, 9, 15, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.True(t, free)
	store.AssertExpectations(t)
}

func TestCarAvailableInclusiveBoundaries(t *testing.T) {
	store := &fakeBookingStore{bookings: []model.Booking{{
		CarID:    1,
		Status:   model.StatusPending,
		PickupAt: utils.NormalizePickup(day(1)),
		ReturnAt: utils.NormalizeReturn(day(3)),
	}}}
	svc := NewAvailability(new(mocks.CarStore), store)

	// A range starting on the existing return day still collides.
	free, err := svc.CarAvailable(context.Background(), 1, day(3), day(4))
	assert.NoError(t, err)
	assert.False(t, free)

	// The first fully clear day is bookable.
	free, err = svc.CarAvailable(context.Background(), 1, day(4), day(5))
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestCarAvailableIgnoresCancelled(t *testing.T) {
	store := &fakeBookingStore{bookings: []model.Booking{{
		CarID:    1,
		Status:   model.StatusCancelled,
		PickupAt: utils.NormalizePickup(day(1)),
		ReturnAt: utils.NormalizeReturn(day(3)),
	}}}
	svc := NewAvailability(new(mocks.CarStore), store)

	free, err := svc.CarAvailable(context.Background(), 1, day(2), day(2))
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestSearchAvailableFiltersAndKeepsOrder(t *testing.T) {
	cars := new(mocks.CarStore)
	catalog := []model.Car{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}}
	cars.On("ListAvailable", mock.Anything, "Berlin").Return(catalog, nil)

	// Cars 11 and 13 are taken for the requested range.
	store := &fakeBookingStore{bookings: []model.Booking{
		{CarID: 11, Status: model.StatusPending, PickupAt: utils.NormalizePickup(day(5)), ReturnAt: utils.NormalizeReturn(day(6))},
		{CarID: 13, Status: model.StatusConfirmed, PickupAt: utils.NormalizePickup(day(4)), ReturnAt: utils.NormalizeReturn(day(8))},
	}}
	svc := NewAvailability(cars, store)

	got, err := svc.SearchAvailable(context.Background(), "Berlin", day(5), day(6))
	assert.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Equal(t, uint64(10), got[0].ID)
		assert.Equal(t, uint64(12), got[1].ID)
	}
}

func TestSearchAvailableEmptyCatalog(t *testing.T) {
	cars := new(mocks.CarStore)
	cars.On("ListAvailable", mock.Anything, "Nowhere").Return([]model.Car{}, nil)
	svc := NewAvailability(cars, &fakeBookingStore{})

	got, err := svc.SearchAvailable(context.Background(), "Nowhere", day(5), day(6))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchAvailablePropagatesStoreError(t *testing.T) {
	cars := new(mocks.CarStore)
	cars.On("ListAvailable", mock.Anything, "Berlin").Return([]model.Car{{ID: 10}}, nil)

	store := new(mocks.BookingStore)
	boom := errors.New("db down")
	store.On("CountOverlapping", mock.Anything, uint64(10), mock.Anything, mock.Anything).Return(0, boom)
	svc := NewAvailability(cars, store)

	_, err := svc.SearchAvailable(context.Background(), "Berlin", day(5), day(6))
	assert.ErrorIs(t, err, boom)
}
