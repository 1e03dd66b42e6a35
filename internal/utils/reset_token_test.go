package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "app-secret"
	testHash   = "$2a$04$fakebcrypt.hash.value.for.tests.only"
)

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := MintResetToken(testSecret, 42, testHash, 15*time.Minute, time.Now())
	require.NoError(t, err)
	assert.True(t, VerifyResetToken(testSecret, 42, testHash, token))
}

func TestResetTokenDiesWithPasswordHash(t *testing.T) {
	token, err := MintResetToken(testSecret, 42, testHash, 15*time.Minute, time.Now())
	require.NoError(t, err)
	assert.False(t, VerifyResetToken(testSecret, 42, "some-other-hash", token),
		"token minted against the old hash must not verify against a new one")
}

func TestResetTokenBoundToUser(t *testing.T) {
	token, err := MintResetToken(testSecret, 42, testHash, 15*time.Minute, time.Now())
	require.NoError(t, err)
	assert.False(t, VerifyResetToken(testSecret, 43, testHash, token))
}

func TestResetTokenBoundToServerSecret(t *testing.T) {
	token, err := MintResetToken(testSecret, 42, testHash, 15*time.Minute, time.Now())
	require.NoError(t, err)
	assert.False(t, VerifyResetToken("different-secret", 42, testHash, token))
}

func TestResetTokenExpires(t *testing.T) {
	// Minted in the past so the embedded expiry has already elapsed.
	token, err := MintResetToken(testSecret, 42, testHash, time.Minute, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)
	assert.False(t, VerifyResetToken(testSecret, 42, testHash, token))
}

func TestResetTokenRejectsGarbage(t *testing.T) {
	assert.False(t, VerifyResetToken(testSecret, 42, testHash, "not.a.token"))
	assert.False(t, VerifyResetToken(testSecret, 42, testHash, ""))
}

func TestUIDCodecRoundTrip(t *testing.T) {
	for _, id := range []uint64{1, 42, 999999, 18446744073709551615} {
		uid := EncodeUID(id)
		got, err := DecodeUID(uid)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestDecodeUIDRejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{"", "!!!", "AAAA====", "bm90LWEtbnVtYmVy"} {
		_, err := DecodeUID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
