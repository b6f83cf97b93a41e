package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/car-rental-marketplace/internal/model"
	"github.com/iliyamo/car-rental-marketplace/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the customer role and returns its ID.
// Emails are lowercased before insert so the unique index acts
// case-insensitively.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, model.RoleCustomer)
	if err != nil {
		// 1062 = duplicate entry on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,image_url,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,image_url,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpgradeToOwner promotes a customer to the owner role. The transition
// is one-directional; promoting an existing owner is a no-op.
func (r *UserRepo) UpgradeToOwner(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE id=?", model.RoleOwner, id)
	return err
}

// UpdateImage stores a new externally hosted profile image URL.
func (r *UserRepo) UpdateImage(ctx context.Context, id uint64, imageURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET image_url=? WHERE id=?", imageURL, id)
	return err
}
