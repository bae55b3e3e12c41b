package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/askly/internal/config"
)

func testJWTService(secret string) *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: secret, ExpirationHours: 1})
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := testJWTService("test-secret")
	orgID := uuid.New()

	token, err := svc.GenerateToken(orgID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, orgID, claims.OrgID)
	assert.Equal(t, orgID, claims.GetOrgID())
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := testJWTService("secret-a").GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = testJWTService("secret-b").ValidateToken(token)
	require.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	svc := testJWTService("test-secret")

	claims := &Claims{
		OrgID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWT_EmptyAndMalformed(t *testing.T) {
	svc := testJWTService("test-secret")

	_, err := svc.ValidateToken("")
	require.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
