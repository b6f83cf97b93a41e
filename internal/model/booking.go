package model

import "time"

// BookingStatus enumerates the states a booking can be in. Any status
// may transition to any other; the owner drives the lifecycle and no
// stricter state machine is enforced.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking records a customer's rental of a car for a whole-day date
// range. PickupAt is always 00:00:00.000 and ReturnAt 23:59:59.999 of
// the respective days, which makes same-day rentals valid and treats
// every booking as consuming full calendar days.
//
// OwnerID is snapshotted from the car at creation time so that a later
// transfer or soft-delete of the car does not retroactively change who
// controls historical bookings. A booking is immutable after insert
// except for its Status.
//
// Fields:
//  ID         – primary key identifier.
//  CarID      – booked car; may reference a disowned car.
//  OwnerID    – car owner at creation time (snapshot).
//  CustomerID – user who made the booking.
//  PickupAt   – start of the first rental day (00:00:00).
//  ReturnAt   – end of the last rental day (23:59:59.999).
//  Status     – pending, confirmed or cancelled.
//  Price      – price_per_day × whole days, fixed at creation.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp (status changes only).
type Booking struct {
	ID         uint64        `json:"id"`
	CarID      uint64        `json:"carId"`
	OwnerID    uint64        `json:"owner"`
	CustomerID uint64        `json:"user"`
	PickupAt   time.Time     `json:"pickupDate"`
	ReturnAt   time.Time     `json:"returnDate"`
	Status     BookingStatus `json:"status"`
	Price      float64       `json:"price"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"-"`
}

// BookingDetail is a booking populated with its car snapshot and, for
// owner-facing listings, the customer who booked it. Car may describe a
// soft-deleted listing; it is returned as stored, never filtered out.
type BookingDetail struct {
	Booking
	Car      *Car        `json:"car"`
	Customer *PublicUser `json:"customer,omitempty"`
}
