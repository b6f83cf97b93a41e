// Package queue defines message payloads exchanged over the message
// broker plus the publisher and background consumer for them.
package queue

// BookingCreatedEvent is published when a reservation is successfully
// created. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID  uint64  `json:"booking_id"`
	CarID      uint64  `json:"car_id"`
	OwnerID    uint64  `json:"owner_id"`
	CustomerID uint64  `json:"customer_id"`
	CarName    string  `json:"car"`
	Location   string  `json:"location"`
	PickupAt   string  `json:"pickup_at"`
	ReturnAt   string  `json:"return_at"`
	Price      float64 `json:"price"`
	CreatedAt  string  `json:"created_at"`
}
