package model

import "time"

// Role values form a closed set.  Every user carries exactly one.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleEditor || s == RoleViewer
}

// User represents an application user record as stored in the `users`
// table.  Username and email are both unique.  Avatar holds a URL or a
// base64 data string; it is free-form text.  Users are never hard-deleted
// by this service.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	Name         string    // users.name (display name, may be empty)
	Avatar       string    // users.avatar
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (admin|editor|viewer)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PasswordResetOTP models one row of the `password_reset_otps` ledger.
// Rows are append-only: issuing a new code never touches earlier rows, and
// the only mutation ever applied is flipping IsUsed from false to true.
// Validity is not stored; it is derived at verification time from CreatedAt.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the code.
//	Code      – 6-digit numeric code kept as text so leading zeros survive.
//	IsUsed    – whether the code has been consumed by a verification.
//	CreatedAt – issuance timestamp the expiry window is measured from.
type PasswordResetOTP struct {
	ID        uint64    // password_reset_otps.id
	UserID    uint64    // password_reset_otps.user_id
	Code      string    // password_reset_otps.otp_code (CHAR(6))
	IsUsed    bool      // password_reset_otps.is_used
	CreatedAt time.Time // password_reset_otps.created_at
}

// AuthToken models the `auth_tokens` table: the opaque session handle a
// client presents on authenticated requests.  At most one row exists per
// user; repeated logins return the same key.
type AuthToken struct {
	Key       string    // auth_tokens.token_key (40 hex chars, primary key)
	UserID    uint64    // auth_tokens.user_id (unique)
	CreatedAt time.Time // auth_tokens.created_at
}
