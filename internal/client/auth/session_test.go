package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func signed(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		UserID:           userID,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestKeyringSession_SaveLoadClear(t *testing.T) {
	keyring.MockInit()

	s := NewKeyringSession("gatherly-test")
	require.NoError(t, s.Load())
	require.False(t, s.IsAuthenticated())

	token := signed(t, "u1", time.Now().Add(time.Hour))
	require.NoError(t, s.Save(token))
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "u1", s.AccountID())
	require.Equal(t, token, s.AccessToken())

	fresh := NewKeyringSession("gatherly-test")
	require.NoError(t, fresh.Load())
	require.True(t, fresh.IsAuthenticated())
	require.Equal(t, "u1", fresh.AccountID())

	require.NoError(t, fresh.Clear())
	require.False(t, fresh.IsAuthenticated())
	require.NoError(t, fresh.Clear())

	again := NewKeyringSession("gatherly-test")
	require.NoError(t, again.Load())
	require.False(t, again.IsAuthenticated())
}

func TestKeyringSession_Expired(t *testing.T) {
	keyring.MockInit()

	s := NewKeyringSession("gatherly-test")
	require.NoError(t, s.Save(signed(t, "u1", time.Now().Add(-time.Minute))))
	require.False(t, s.IsAuthenticated())
	require.Equal(t, "u1", s.AccountID())
}

func TestKeyringSession_ClockAdvancesPastExpiry(t *testing.T) {
	keyring.MockInit()

	exp := time.Now().Add(time.Hour)
	s := NewKeyringSession("gatherly-test")
	require.NoError(t, s.Save(signed(t, "u1", exp)))
	require.True(t, s.IsAuthenticated())

	s.now = func() time.Time { return exp.Add(time.Second) }
	require.False(t, s.IsAuthenticated())
}

func TestKeyringSession_RejectsGarbage(t *testing.T) {
	keyring.MockInit()

	s := NewKeyringSession("gatherly-test")
	require.ErrorIs(t, s.Save("not-a-jwt"), ErrMalformedToken)
	require.False(t, s.IsAuthenticated())

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.ErrorIs(t, s.Save(noSubject), ErrMalformedToken)
}
