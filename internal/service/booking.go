package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/repository"
	"github.com/iliyamo/car-rental-marketplace/internal/utils"
)

// ErrInvalidStatus is returned by SetStatus when the requested status
// is not one of pending, confirmed or cancelled.
var ErrInvalidStatus = errors.New("invalid booking status")

// Bookings implements the reservation and query/status services on top
// of a BookingStore.
type Bookings struct {
	Store BookingStore
}

// NewBookings constructs the booking service.
func NewBookings(store BookingStore) *Bookings {
	if store == nil {
		panic("nil store passed to NewBookings")
	}
	return &Bookings{Store: store}
}

// Reserve normalizes the requested range to whole-day boundaries and
// delegates to the store's transactional reserve-if-available
// operation. Outcomes surface as repository sentinels: ErrCarNotFound
// when the car is missing or disowned, ErrConflict when an overlapping
// booking exists at write time; on conflict nothing was persisted.
func (s *Bookings) Reserve(ctx context.Context, customerID, carID uint64, pickup, ret time.Time) (*model.Booking, error) {
	pickup = utils.NormalizePickup(pickup)
	ret = utils.NormalizeReturn(ret)
	return s.Store.Reserve(ctx, customerID, carID, pickup, ret)
}

// ListForCustomer returns the customer's bookings newest-first, each
// carrying its car snapshot. Disowned cars are returned as stored.
func (s *Bookings) ListForCustomer(ctx context.Context, customerID uint64) ([]model.BookingDetail, error) {
	return s.Store.ListByCustomer(ctx, customerID)
}

// ListForOwner returns the bookings snapshotted to the owner,
// newest-first, with car and customer populated. Role enforcement (only
// owners may call this) happens at the HTTP boundary.
func (s *Bookings) ListForOwner(ctx context.Context, ownerID uint64) ([]model.BookingDetail, error) {
	return s.Store.ListByOwner(ctx, ownerID)
}

// SetStatus changes a booking's status. Only the owner snapshotted on
// the booking at creation time may do so; everyone else gets
// repository.ErrForbidden and the status is left untouched. Beyond set
// membership no transition rule is enforced: any status may move to
// any other.
func (s *Bookings) SetStatus(ctx context.Context, callerID, bookingID uint64, status model.BookingStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	b, err := s.Store.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.OwnerID != callerID {
		return repository.ErrForbidden
	}
	return s.Store.UpdateStatus(ctx, bookingID, status)
}
