package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Reset tokens authorize exactly one password change.  A token is an HS256
// JWT in standard JWS compact serialization whose signing key is derived
// from the user's *current* password hash:
//
//	key = SHA-256(appSecret || 0x00 || passwordHash || 0x00 || "password-reset")
//
// Verification re-derives the key from whatever hash is stored at that
// moment, so the instant the password changes every outstanding token stops
// verifying.  No token state is persisted anywhere.  Claims carried:
// sub (user id as decimal text), purpose, iat, exp.

const resetPurpose = "password-reset"

var errBadSigningMethod = errors.New("unexpected signing method")

// resetKey derives the per-user HMAC key binding a token to the current
// password hash.
func resetKey(appSecret, passwordHash string) []byte {
	h := sha256.New()
	h.Write([]byte(appSecret))
	h.Write([]byte{0})
	h.Write([]byte(passwordHash))
	h.Write([]byte{0})
	h.Write([]byte(resetPurpose))
	return h.Sum(nil)
}

// MintResetToken signs a reset token for the user identified by userID whose
// stored bcrypt hash is passwordHash.  The token expires ttl from now.
func MintResetToken(appSecret string, userID uint64, passwordHash string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":     strconv.FormatUint(userID, 10),
		"purpose": resetPurpose,
		"iat":     now.UTC().Unix(),
		"exp":     now.UTC().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(resetKey(appSecret, passwordHash))
}

// VerifyResetToken reports whether token is a currently valid reset token
// for the user.  It fails on any of: signature mismatch (which includes any
// password change since minting), expiry, wrong purpose, or a subject that
// does not match userID.
func VerifyResetToken(appSecret string, userID uint64, passwordHash, token string) bool {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadSigningMethod
		}
		return resetKey(appSecret, passwordHash), nil
	})
	if err != nil || !tok.Valid {
		return false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	if p, _ := claims["purpose"].(string); p != resetPurpose {
		return false
	}
	sub, _ := claims["sub"].(string)
	return sub == strconv.FormatUint(userID, 10)
}

// EncodeUID renders a user id as the URL-safe opaque reference returned by
// the verify step.  It is reversible on purpose: the reference is an index,
// not a secret; all secrecy rests in the accompanying token.
func EncodeUID(userID uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(userID, 10)))
}

// DecodeUID reverses EncodeUID.  Any malformed input yields an error.
func DecodeUID(s string) (uint64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(raw), 10, 64)
}
