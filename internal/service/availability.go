// Package service holds the booking core: availability checking,
// reservation and booking status management. Services depend on narrow
// store interfaces rather than concrete repositories so the logic can
// be exercised without a database.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/utils"
)

// CarStore is the slice of the car repository the availability search
// needs: candidate listings flagged available at a location.
type CarStore interface {
	ListAvailable(ctx context.Context, location string) ([]model.Car, error)
}

// BookingStore is the persistence surface the booking services operate
// on. *repository.BookingRepo satisfies it.
type BookingStore interface {
	CountOverlapping(ctx context.Context, carID uint64, pickup, ret time.Time) (int, error)
	Reserve(ctx context.Context, customerID, carID uint64, pickup, ret time.Time) (*model.Booking, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]model.BookingDetail, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.BookingDetail, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error
}

// Availability answers "is this car free for that date range". It is
// read-only; the write-time authoritative check lives in the
// reservation path.
type Availability struct {
	Cars     CarStore
	Bookings BookingStore
}

// NewAvailability constructs the availability checker.
func NewAvailability(cars CarStore, bookings BookingStore) *Availability {
	if cars == nil || bookings == nil {
		panic("nil store passed to NewAvailability")
	}
	return &Availability{Cars: cars, Bookings: bookings}
}

// CarAvailable reports whether the car has no non-cancelled booking
// overlapping the requested interval. Normalization to whole-day
// boundaries is applied here as the first step, so callers may pass raw
// dates and the search path and the reservation path always compare the
// same intervals. Repeated calls against unchanged storage return the
// same answer.
func (s *Availability) CarAvailable(ctx context.Context, carID uint64, pickup, ret time.Time) (bool, error) {
	pickup = utils.NormalizePickup(pickup)
	ret = utils.NormalizeReturn(ret)
	n, err := s.Bookings.CountOverlapping(ctx, carID, pickup, ret)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// SearchAvailable returns the cars listed at the location that are free
// for the requested range. The per-candidate overlap checks run
// concurrently purely for latency: each is an independent read, and the
// results are collected by candidate index so the output order always
// matches the catalog order regardless of which check finishes first.
func (s *Availability) SearchAvailable(ctx context.Context, location string, pickup, ret time.Time) ([]model.Car, error) {
	candidates, err := s.Cars.ListAvailable(ctx, location)
	if err != nil {
		return nil, err
	}
	free := make([]bool, len(candidates))
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			free[i], errs[i] = s.CarAvailable(ctx, candidates[i].ID, pickup, ret)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	available := make([]model.Car, 0, len(candidates))
	for i, c := range candidates {
		if free[i] {
			available = append(available, c)
		}
	}
	return available, nil
}
