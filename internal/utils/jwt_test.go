package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-help-desk/internal/model"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("test-secret", 42, model.RoleAdmin, 60)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), at.Exp, 5*time.Second)

	claims, err := ParseAccessToken("test-secret", at.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("right-secret", 1, model.RoleStudent, 60)
	require.NoError(t, err)

	_, err = ParseAccessToken("wrong-secret", at.Token)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("k", 7, model.RoleStudent, -1)
	require.NoError(t, err)

	_, err = ParseAccessToken("k", at.Token)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestParseAccessToken_Tampered(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("k", 7, model.RoleStudent, 60)
	require.NoError(t, err)

	parts := strings.Split(at.Token, ".")
	require.Len(t, parts, 3)
	// flip the payload, keep the original signature
	tampered := parts[0] + ".eyJyb2xlIjoiQWRtaW4ifQ." + parts[2]

	_, err = ParseAccessToken("k", tampered)
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("k", "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestNewRefreshToken(t *testing.T) {
	t.Parallel()

	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	// 64 bytes -> 86 chars of unpadded base64
	assert.Len(t, rt.Raw, 86)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), rt.Exp, 5*time.Second)

	rt2, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, rt2.Raw)
}

func TestHashRefreshRaw_Deterministic(t *testing.T) {
	t.Parallel()

	h1 := HashRefreshRaw("token-a")
	h2 := HashRefreshRaw("token-a")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // sha256 hex
	assert.NotEqual(t, h1, HashRefreshRaw("token-b"))
}
