package credential

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewService([]byte("secret"), 0)
	assert.Error(t, err)
}

func TestIssueToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newTestService(t, WithClock(func() time.Time { return now }))

	tokenString, err := s.IssueToken("ana", 7)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := s.VerifyToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.ExpiresAt.Time.Equal(now.Add(24*time.Hour)))
	assert.True(t, claims.IssuedAt.Time.Equal(now))
}

func TestVerifyToken_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s := newTestService(t, WithClock(func() time.Time { return clock() }))

	tokenString, err := s.IssueToken("ana", 7)
	require.NoError(t, err)

	_, err = s.VerifyToken(tokenString)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(24*time.Hour + time.Second) }
	_, err = s.VerifyToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	s1 := newTestService(t)
	s2, err := NewService([]byte("another-secret"), 24*time.Hour)
	require.NoError(t, err)

	tokenString, _ := s1.IssueToken("ana", 7)

	_, err = s2.VerifyToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerifyToken_InvalidSigningMethod(t *testing.T) {
	s := newTestService(t)
	claims := &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ana",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = s.VerifyToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingClaims(t *testing.T) {
	s := newTestService(t)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		claims jwt.Claims
	}{
		{"no subject", &Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}},
		{"no user id", &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ana", ExpiresAt: exp}}},
		{"no expiry", &Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{Subject: "ana"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte("secret"))
			require.NoError(t, err)

			_, err = s.VerifyToken(tokenString)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	s := newTestService(t)

	_, err := s.VerifyToken("invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
