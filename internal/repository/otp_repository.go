package repository

import (
	"context"
	"database/sql"
	"time"
)

// OTPRepo is the append-only ledger of issued password-reset codes.  Rows
// are never updated except to flip is_used, and never deleted except by the
// retention sweep.
type OTPRepo struct{ DB *sql.DB }

func NewOTPRepo(db *sql.DB) *OTPRepo { return &OTPRepo{DB: db} }

// Insert records a freshly issued code.  Earlier unused codes for the same
// user are deliberately left untouched; verification picks the most recent
// match.
func (r *OTPRepo) Insert(ctx context.Context, userID uint64, code string, issuedAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_otps (user_id, otp_code, created_at) VALUES (?,?,?)",
		userID, code, issuedAt.UTC())
	return err
}

// ConsumeLatest verifies and consumes a code in one transaction.  Among the
// unused rows matching (userID, code) it locks the latest-issued one:
//
//	no row                     -> ErrOTPNotFound
//	now - created_at > ttl     -> ErrOTPExpired, row stays unused
//	otherwise                  -> is_used=1, committed
//
// The SELECT ... FOR UPDATE serializes concurrent verifications of the same
// code on the row lock, so at most one caller ever consumes a given row.
func (r *OTPRepo) ConsumeLatest(ctx context.Context, userID uint64, code string, now time.Time, ttl time.Duration) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		id       uint64
		issuedAt time.Time
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, created_at FROM password_reset_otps WHERE user_id=? AND otp_code=? AND is_used=0 ORDER BY created_at DESC, id DESC LIMIT 1 FOR UPDATE",
		userID, code).Scan(&id, &issuedAt)
	if err == sql.ErrNoRows {
		return ErrOTPNotFound
	}
	if err != nil {
		return err
	}
	if now.UTC().Sub(issuedAt) > ttl {
		// Expired codes are rejected but not consumed; a newer code for the
		// same user may still verify.
		return ErrOTPExpired
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE password_reset_otps SET is_used=1 WHERE id=?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// PruneBefore deletes ledger rows issued before cutoff and returns how many
// went.  Retention exists purely to bound table growth; the cutoff passed
// by the sweep is far beyond the validity window, so pruning can never race
// a live verification.
func (r *OTPRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM password_reset_otps WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
