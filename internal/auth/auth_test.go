package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(1, 42, 7, "owner@studio.test", RoleOwner, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, 42, claims.StudioID)
	assert.Equal(t, 7, claims.MemberID)
	assert.Equal(t, "owner@studio.test", claims.Email)
	assert.Equal(t, RoleOwner, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateAccessToken(1, 1, 0, "a@b.c", RoleStaff, "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, 1, 0, "a@b.c", RoleStaff, testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	now := time.Now().Add(-time.Hour)
	claims := &JWTClaims{
		UserID:    1,
		StudioID:  1,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateToken(signed, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshAccessToken(t *testing.T) {
	_, refresh, err := GenerateTokens(3, 9, 0, "staff@studio.test", RoleStaff, testSecret)
	require.NoError(t, err)

	newAccess, claims, err := RefreshAccessToken(refresh, testSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.Equal(t, 3, claims.UserID)
	assert.Equal(t, 9, claims.StudioID)

	validated, err := ValidateToken(newAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", validated.TokenType)
}

func TestRefreshAccessToken_RejectsAccessToken(t *testing.T) {
	access, err := GenerateAccessToken(3, 9, 0, "staff@studio.test", RoleStaff, testSecret)
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(access, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
