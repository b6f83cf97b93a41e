package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
)

// CarRepo provides persistence for marketplace car listings. Cars are
// soft-deleted: removal clears the owner reference and hides the
// listing but keeps the row so historical bookings stay resolvable.
type CarRepo struct {
	db *sql.DB
}

// NewCarRepo returns a new CarRepo bound to the given database.
func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

const carColumns = `id, owner_id, brand, model, year, category, transmission,
	fuel_type, seating_capacity, price_per_day, location, description,
	image_url, is_available, created_at, updated_at`

// scanCar reads one car row from any row scanner (sql.Row or sql.Rows).
func scanCar(scan func(dest ...any) error) (model.Car, error) {
	var (
		c       model.Car
		ownerID sql.NullInt64
	)
	err := scan(&c.ID, &ownerID, &c.Brand, &c.Model, &c.Year, &c.Category,
		&c.Transmission, &c.FuelType, &c.SeatingCapacity, &c.PricePerDay,
		&c.Location, &c.Description, &c.ImageURL, &c.IsAvailable,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Car{}, err
	}
	if ownerID.Valid {
		oid := uint64(ownerID.Int64)
		c.OwnerID = &oid
	}
	return c, nil
}

// Create inserts a new listing and populates the generated ID and
// timestamps on the provided car.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cars (owner_id, brand, model, year, category, transmission,
			fuel_type, seating_capacity, price_per_day, location, description,
			image_url, is_available)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.OwnerID, c.Brand, c.Model, c.Year, c.Category, c.Transmission,
		c.FuelType, c.SeatingCapacity, c.PricePerDay, c.Location,
		c.Description, c.ImageURL, c.IsAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	created, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = created
	return nil
}

// GetByID returns a single car. ErrCarNotFound is returned when the id
// does not resolve; disowned cars are still returned so booking views
// can render their snapshot.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+carColumns+` FROM cars WHERE id = ?`, id)
	c, err := scanCar(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Car{}, ErrCarNotFound
	}
	return c, err
}

// ListAvailable returns every listing currently flagged available,
// optionally filtered by location (case-insensitive exact match).
// Results are newest-first so fresh listings surface on the browse page.
func (r *CarRepo) ListAvailable(ctx context.Context, location string) ([]model.Car, error) {
	q := `SELECT ` + carColumns + ` FROM cars WHERE is_available = 1`
	args := []any{}
	if strings.TrimSpace(location) != "" {
		q += ` AND LOWER(location) = ?`
		args = append(args, strings.ToLower(strings.TrimSpace(location)))
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// ListByOwner returns all listings owned by the given user, including
// ones currently hidden from search.
func (r *CarRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+carColumns+` FROM cars WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows.Scan)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// CountByOwner returns how many listings the owner currently holds.
func (r *CarRepo) CountByOwner(ctx context.Context, ownerID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cars WHERE owner_id = ?`, ownerID).Scan(&n)
	return n, err
}

// ownerOf loads the owner column for an existing car. It returns
// ErrCarNotFound when the car does not exist and ErrForbidden when the
// car is owned by someone else (or nobody).
func (r *CarRepo) ownerOf(ctx context.Context, carID, callerID uint64) error {
	var ownerID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM cars WHERE id = ?`, carID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCarNotFound
	}
	if err != nil {
		return err
	}
	if !ownerID.Valid || uint64(ownerID.Int64) != callerID {
		return ErrForbidden
	}
	return nil
}

// ToggleAvailability flips the is_available flag of a car owned by the
// caller. Ownership is validated first so callers can distinguish 403
// from 404.
func (r *CarRepo) ToggleAvailability(ctx context.Context, carID, callerID uint64) error {
	if err := r.ownerOf(ctx, carID, callerID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE cars SET is_available = NOT is_available WHERE id = ?`, carID)
	return err
}

// SoftDelete disowns and hides a listing owned by the caller. The row
// is never physically destroyed; bookings that reference it keep
// resolving to the disowned record.
func (r *CarRepo) SoftDelete(ctx context.Context, carID, callerID uint64) error {
	if err := r.ownerOf(ctx, carID, callerID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE cars SET owner_id = NULL, is_available = 0 WHERE id = ?`, carID)
	return err
}
