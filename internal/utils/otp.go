package utils // package utils provides helpers for codes, tokens and hashing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// otpRange is the number of possible codes; codes are 6 decimal digits.
var otpRange = big.NewInt(1000000)

// GenerateOTP returns a uniformly random 6-digit one-time code as text.
// The value is zero-padded, so "004217" is a valid code; keeping the code
// a string end to end preserves those leading zeros through storage,
// email templates and comparison.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewSessionKey returns a 40-character hex session handle generated from
// 20 bytes of cryptographically secure random data.  The handle is opaque:
// it carries no claims and is only meaningful as a lookup key in the
// auth_tokens table.
func NewSessionKey() (string, error) {
	return randomHex(20)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
