package auth

import "errors"

// Failure kinds surfaced to the transport layer.  The wording is part of
// the API: handlers send these strings verbatim in the error payload.
var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("Invalid Credentials")

	// ErrUserExists signals a registration collision on username or email.
	ErrUserExists = errors.New("Username or email already in use")

	// ErrInvalidOTP covers a wrong code, an already-consumed code, and an
	// unknown email on the verify step.
	ErrInvalidOTP = errors.New("Invalid OTP")

	// ErrOTPExpired means the code matched an unconsumed record but its
	// 60-second window has passed.  Distinct from ErrInvalidOTP so clients
	// can prompt for a fresh code instead of a re-entry.
	ErrOTPExpired = errors.New("OTP Expired")

	// ErrInvalidLink means the opaque user reference failed to decode or
	// resolved to no user.
	ErrInvalidLink = errors.New("Invalid link")

	// ErrInvalidOrExpiredToken means the reset token failed verification:
	// forged, expired, or minted against a password hash that has since
	// changed (including by a previous run of the same confirm request).
	ErrInvalidOrExpiredToken = errors.New("Invalid or expired token")

	// ErrMissingFields rejects requests with required fields absent.
	ErrMissingFields = errors.New("Missing fields")
)
