package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists refresh-token sessions. Raw token strings never
// reach the database: callers hash them first (utils.HashRefreshRaw)
// and every lookup happens by that hash, so a leaked table cannot be
// replayed into live sessions.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh records a new session for the user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)`,
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh resolves a token hash to its user. Revoked and
// expired tokens filter out in the query itself, so they answer
// sql.ErrNoRows exactly like a token that never existed.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
		 LIMIT 1`, tokenHash).Scan(&userID)
	return userID, err
}

// RevokeByHash ends a single session. Revoking an already revoked
// token is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE token_hash = ? AND revoked_at IS NULL`, tokenHash)
	return err
}

// RevokeAllForUser ends every active session the user holds, across
// all devices. Backs the logout-all endpoint.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE user_id = ? AND revoked_at IS NULL`, userID)
	return err
}
