package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/catalogstudio/auth-service/internal/utils"
)

// TokenRepo persists opaque session handles (single row per user).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// GetOrCreate returns the user's session key, minting one if none exists.
// Concurrent first logins can both miss the SELECT; the unique index on
// user_id makes one INSERT lose, and the loser re-reads the winner's key so
// both callers converge on the same handle.
func (r *TokenRepo) GetOrCreate(ctx context.Context, userID uint64) (string, error) {
	var key string
	err := r.DB.QueryRowContext(ctx,
		"SELECT token_key FROM auth_tokens WHERE user_id=? LIMIT 1", userID).Scan(&key)
	if err == nil {
		return key, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	key, err = utils.NewSessionKey()
	if err != nil {
		return "", err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (token_key, user_id) VALUES (?,?)", key, userID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			err = r.DB.QueryRowContext(ctx,
				"SELECT token_key FROM auth_tokens WHERE user_id=? LIMIT 1", userID).Scan(&key)
			if err != nil {
				return "", err
			}
			return key, nil
		}
		return "", err
	}
	return key, nil
}

// UserIDByKey resolves a presented session key to its owner.  Unknown keys
// surface sql.ErrNoRows.
func (r *TokenRepo) UserIDByKey(ctx context.Context, key string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM auth_tokens WHERE token_key=? LIMIT 1", key).Scan(&userID)
	return userID, err
}
