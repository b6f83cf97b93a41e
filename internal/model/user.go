package model

import "time"

// Role values stored in users.role. A user starts out as a customer and
// may upgrade to owner in order to list cars; the transition is
// one-directional.
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

// User represents an application user record as stored in the `users`
// table. Emails are normalized to lower case before insertion so the
// unique index is effectively case-insensitive. The password is stored
// only as a bcrypt hash.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lowercased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – "customer" or "owner".
//  ImageURL     – profile image URL hosted externally (may be empty).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	ImageURL     string    // users.image_url
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the wire representation of a user. The password hash is
// deliberately absent so it can never be serialized by accident.
type PublicUser struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ImageURL string `json:"image,omitempty"`
}

// Public strips the credential material from a User for API responses.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, ImageURL: u.ImageURL}
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token is persisted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
