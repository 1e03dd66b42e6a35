package repository

import "errors"

var (
	// ErrUserExists is returned when an insert collides with the unique
	// username or email index.
	ErrUserExists = errors.New("username or email already exists")

	// ErrOTPNotFound means no unused ledger row matches the (user, code)
	// pair presented for verification.
	ErrOTPNotFound = errors.New("otp not found")

	// ErrOTPExpired means a matching unused row exists but its validity
	// window has passed.  The row is left unused.
	ErrOTPExpired = errors.New("otp expired")
)
