package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/utils"
)

// BookingRepo provides persistence for bookings. All timestamp columns
// are stored in UTC; callers are expected to pass normalized whole-day
// boundaries (00:00:00.000 pickup, 23:59:59.999 return).
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// overlapCond is the interval-overlap predicate shared by the read-only
// availability check and the locked re-check inside Reserve. Bounds are
// inclusive on both sides: a booking whose return day equals the
// requested pickup day still conflicts, so same-day turnaround between
// two rentals is rejected.
const overlapCond = `car_id = ? AND status <> 'cancelled'
	AND pickup_at <= ? AND return_at >= ?`

// CountOverlapping returns how many non-cancelled bookings for the car
// overlap the [pickup, ret] interval. Read-only; used by the search
// fan-out and as the advisory pre-check before reserving.
func (r *BookingRepo) CountOverlapping(ctx context.Context, carID uint64, pickup, ret time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE `+overlapCond, carID, ret, pickup).Scan(&n)
	return n, err
}

// Reserve atomically creates a booking for the car if, and only if, no
// overlapping non-cancelled booking exists. The car row is locked with
// SELECT ... FOR UPDATE for the duration of the transaction, which
// serializes concurrent reservations of the same car: two requests that
// both passed the advisory search check cannot both insert, the second
// one re-checks against the committed state of the first and fails with
// ErrConflict.
//
// The booking snapshots the car's current owner and fixes the price at
// price_per_day × whole days. ErrCarNotFound is returned when the car
// does not exist or has been disowned (a disowned listing can no longer
// be booked).
func (r *BookingRepo) Reserve(ctx context.Context, customerID, carID uint64, pickup, ret time.Time) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the car row. Every reservation for this car must queue here.
	var (
		ownerID     sql.NullInt64
		pricePerDay float64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, price_per_day FROM cars WHERE id = ? FOR UPDATE`,
		carID).Scan(&ownerID, &pricePerDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, err
	}
	if !ownerID.Valid {
		return nil, ErrCarNotFound
	}

	// Authoritative overlap check, inside the lock. Any earlier
	// "available" shown during search was advisory only.
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE `+overlapCond, carID, ret, pickup).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrConflict
	}

	days := utils.RentalDays(pickup, ret)
	b := &model.Booking{
		CarID:      carID,
		OwnerID:    uint64(ownerID.Int64),
		CustomerID: customerID,
		PickupAt:   pickup,
		ReturnAt:   ret,
		Status:     model.StatusPending,
		Price:      pricePerDay * float64(days),
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (car_id, owner_id, customer_id, pickup_at, return_at, status, price)
		 VALUES (?,?,?,?,?,?,?)`,
		b.CarID, b.OwnerID, b.CustomerID, b.PickupAt, b.ReturnAt, b.Status, b.Price)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	b.ID = uint64(id)
	// Query back timestamps set by the database.
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

const bookingWithCarQuery = `SELECT b.id, b.car_id, b.owner_id, b.customer_id,
		b.pickup_at, b.return_at, b.status, b.price, b.created_at, b.updated_at,
		c.id, c.owner_id, c.brand, c.model, c.year, c.category, c.transmission,
		c.fuel_type, c.seating_capacity, c.price_per_day, c.location,
		c.description, c.image_url, c.is_available, c.created_at, c.updated_at
	FROM bookings b
	LEFT JOIN cars c ON c.id = b.car_id`

// scanBookingWithCar reads one joined row. The car side is scanned
// through nullable holders: the listing may have been soft-deleted
// since the booking was made, and the detail must still render whatever
// the disowned record contains without erroring.
func scanBookingWithCar(scan func(dest ...any) error, extra ...any) (model.BookingDetail, error) {
	var (
		d          model.BookingDetail
		carID      sql.NullInt64
		carOwnerID sql.NullInt64
		brand      sql.NullString
		carModel   sql.NullString
		year       sql.NullInt64
		category   sql.NullString
		trans      sql.NullString
		fuel       sql.NullString
		seats      sql.NullInt64
		price      sql.NullFloat64
		location   sql.NullString
		desc       sql.NullString
		image      sql.NullString
		avail      sql.NullBool
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)
	dest := []any{
		&d.ID, &d.CarID, &d.OwnerID, &d.CustomerID,
		&d.PickupAt, &d.ReturnAt, &d.Status, &d.Price, &d.CreatedAt, &d.UpdatedAt,
		&carID, &carOwnerID, &brand, &carModel, &year, &category, &trans,
		&fuel, &seats, &price, &location, &desc, &image, &avail,
		&createdAt, &updatedAt,
	}
	dest = append(dest, extra...)
	if err := scan(dest...); err != nil {
		return model.BookingDetail{}, err
	}
	if carID.Valid {
		car := &model.Car{
			ID:              uint64(carID.Int64),
			Brand:           brand.String,
			Model:           carModel.String,
			Year:            int(year.Int64),
			Category:        category.String,
			Transmission:    trans.String,
			FuelType:        fuel.String,
			SeatingCapacity: int(seats.Int64),
			PricePerDay:     price.Float64,
			Location:        location.String,
			Description:     desc.String,
			ImageURL:        image.String,
			IsAvailable:     avail.Bool,
			CreatedAt:       createdAt.Time,
			UpdatedAt:       updatedAt.Time,
		}
		if carOwnerID.Valid {
			oid := uint64(carOwnerID.Int64)
			car.OwnerID = &oid
		}
		d.Car = car
	}
	return d, nil
}

// ListByCustomer returns the customer's bookings newest-first, each
// populated with its car snapshot.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		bookingWithCarQuery+` WHERE b.customer_id = ? ORDER BY b.created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingWithCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListByOwner returns the bookings whose owner snapshot matches the
// given user, newest-first, populated with the car and the booking
// customer. The customer's password hash is never selected.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.BookingDetail, error) {
	// The extra selected columns follow the shared car block.
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.car_id, b.owner_id, b.customer_id,
			b.pickup_at, b.return_at, b.status, b.price, b.created_at, b.updated_at,
			c.id, c.owner_id, c.brand, c.model, c.year, c.category, c.transmission,
			c.fuel_type, c.seating_capacity, c.price_per_day, c.location,
			c.description, c.image_url, c.is_available, c.created_at, c.updated_at,
			u.id, u.name, u.email, u.role, u.image_url
		FROM bookings b
		LEFT JOIN cars c ON c.id = b.car_id
		LEFT JOIN users u ON u.id = b.customer_id
		WHERE b.owner_id = ?
		ORDER BY b.created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.BookingDetail, 0)
	for rows.Next() {
		var (
			uid    sql.NullInt64
			uname  sql.NullString
			uemail sql.NullString
			urole  sql.NullString
			uimage sql.NullString
		)
		d, err := scanBookingWithCar(rows.Scan, &uid, &uname, &uemail, &urole, &uimage)
		if err != nil {
			return nil, err
		}
		if uid.Valid {
			d.Customer = &model.PublicUser{
				ID:       uint64(uid.Int64),
				Name:     uname.String,
				Email:    uemail.String,
				Role:     urole.String,
				ImageURL: uimage.String,
			}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetByID loads a bare booking row. ErrBookingNotFound is returned when
// the id does not resolve.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, car_id, owner_id, customer_id, pickup_at, return_at,
			status, price, created_at, updated_at
		 FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.CarID, &b.OwnerID, &b.CustomerID, &b.PickupAt,
			&b.ReturnAt, &b.Status, &b.Price, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus sets the status field; everything else on a booking is
// immutable after insert.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	return err
}

// CountByOwnerAndStatus returns the number of bookings with the given
// owner snapshot and status. Used by the owner dashboard.
func (r *BookingRepo) CountByOwnerAndStatus(ctx context.Context, ownerID uint64, status model.BookingStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE owner_id = ? AND status = ?`,
		ownerID, status).Scan(&n)
	return n, err
}
