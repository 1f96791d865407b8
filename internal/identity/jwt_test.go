package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "lifesure-identity"
)

func mintToken(t *testing.T, secret, issuer, subject, email string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, providerClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)
	token := mintToken(t, testSecret, testIssuer, "subject-1", "ana@example.com", time.Now().Add(time.Hour))

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "subject-1", id.SubjectID)
	assert.Equal(t, "ana@example.com", id.Email)
}

func TestVerifyMalformedToken(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	_, err := v.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestVerifyRejectsInvalidTokens(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong signature", mintToken(t, "other-secret", testIssuer, "subject-1", "", time.Now().Add(time.Hour))},
		{"wrong issuer", mintToken(t, testSecret, "someone-else", "subject-1", "", time.Now().Add(time.Hour))},
		{"expired", mintToken(t, testSecret, testIssuer, "subject-1", "", time.Now().Add(-time.Hour))},
		{"missing subject", mintToken(t, testSecret, testIssuer, "", "", time.Now().Add(time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidCredential)
		})
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	v := NewJWTVerifier(testSecret, testIssuer)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:  testIssuer,
		Subject: "subject-1",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
