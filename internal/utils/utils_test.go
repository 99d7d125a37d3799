package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-01-04T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 4, 8, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("04/01/2024")
	assert.Error(t, err)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$345.00", FormatCurrency(300*1.15, "USD"))
	assert.Equal(t, "€10.50", FormatCurrency(10.499999, "EUR"))
	assert.Equal(t, "$1.00", FormatCurrency(1, "XYZ"))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", "u1", "admin", "secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)

	claims, err := ValidateToken(token.AccessToken, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = ValidateToken(token.AccessToken, "other-secret")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateSessionToken("sid-1", "u1", "user", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token.AccessToken, "secret")
	assert.Error(t, err)
}
