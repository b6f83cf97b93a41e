// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting SQL driver errors. For example,
// ErrForbidden indicates that the current user is not authorized to act
// on a resource owned by someone else, while ErrConflict signals that a
// reservation cannot proceed because the car is already booked for an
// overlapping date range.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a reservation cannot be created because
// an overlapping non-cancelled booking already exists for the car.
var ErrConflict = errors.New("conflict")

// ErrCarNotFound is returned when a car does not exist or has been
// disowned and can no longer be booked.
var ErrCarNotFound = errors.New("car not found")

// ErrBookingNotFound is returned when a booking id does not resolve to
// a stored booking.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
