package model

import "time"

// Car represents a vehicle listed on the marketplace. A car belongs to
// at most one owner; deleting a car disowns it (owner_id set NULL) and
// hides it (is_available false) but never removes the row, so bookings
// that reference it stay resolvable.
//
// Fields:
//  ID              – primary key identifier.
//  OwnerID         – listing owner; nil once the car is soft-deleted.
//  Brand, Model    – make and model, e.g. "BMW" / "X5".
//  Year            – production year.
//  Category        – body category such as "SUV" or "Sedan".
//  Transmission    – "Automatic", "Manual" or "Semi-Automatic".
//  FuelType        – fuel type such as "Petrol" or "Electric".
//  SeatingCapacity – number of seats.
//  PricePerDay     – daily rental price; always positive.
//  Location        – city the car is listed in.
//  Description     – free-form listing text.
//  ImageURL        – externally hosted listing image.
//  IsAvailable     – whether the car shows up in search results.
type Car struct {
	ID              uint64    `json:"id"`
	OwnerID         *uint64   `json:"owner"`
	Brand           string    `json:"brand"`
	Model           string    `json:"model"`
	Year            int       `json:"year"`
	Category        string    `json:"category"`
	Transmission    string    `json:"transmission"`
	FuelType        string    `json:"fuelType"`
	SeatingCapacity int       `json:"seatingCapacity"`
	PricePerDay     float64   `json:"pricePerDay"`
	Location        string    `json:"location"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"image"`
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"-"`
}
