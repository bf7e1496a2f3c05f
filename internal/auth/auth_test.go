package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testTokenManager() *TokenManager {
	return NewTokenManager(TokenConfig{
		AccessSecret:  "access_secret_for_testing",
		AccessTTL:     time.Hour,
		RefreshSecret: "refresh_secret_for_testing",
		RefreshTTL:    24 * time.Hour,
	})
}

func TestHashPassword(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)

	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, password, hash)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match := CheckPasswordHash(password, hash)
	require.True(t, match, "Password should match the hash")

	wrongPassword := "wrongPassword"
	match = CheckPasswordHash(wrongPassword, hash)
	require.False(t, match, "Wrong password should not match the hash")
}

func TestGenerateVerificationCode(t *testing.T) {
	code, err := GenerateVerificationCode()
	require.NoError(t, err)
	require.Len(t, code, 6)

	other, err := GenerateVerificationCode()
	require.NoError(t, err)
	require.NotEqual(t, code, other)
}

func TestGenerateRandomPassword(t *testing.T) {
	password, err := GenerateRandomPassword()
	require.NoError(t, err)
	require.Len(t, password, 32)
}

func TestIssueAndVerifyToken(t *testing.T) {
	manager := testTokenManager()
	userID := int64(123)
	sessionID := uuid.New()

	for _, kind := range []TokenKind{TokenKindAccess, TokenKindRefresh} {
		tokenString, err := manager.Issue(userID, sessionID, kind)
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		claims, err := manager.Verify(tokenString, kind)
		require.NoError(t, err)
		require.NotNil(t, claims)
		require.Equal(t, userID, claims.UserID)
		require.Equal(t, sessionID, claims.SessionID)
	}
}

func TestVerifyToken_WrongKind(t *testing.T) {
	manager := testTokenManager()
	sessionID := uuid.New()

	accessToken, err := manager.Issue(1, sessionID, TokenKindAccess)
	require.NoError(t, err)

	_, err = manager.Verify(accessToken, TokenKindRefresh)
	require.Error(t, err, "An access token must not verify under the refresh secret")
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	refreshToken, err := manager.Issue(1, sessionID, TokenKindRefresh)
	require.NoError(t, err)

	_, err = manager.Verify(refreshToken, TokenKindAccess)
	require.Error(t, err, "A refresh token must not verify under the access secret")
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestVerifyToken_Expired(t *testing.T) {
	manager := testTokenManager()
	sessionID := uuid.New()

	expirationTime := time.Now().Add(-1 * time.Minute)
	claimsExpired := &AppClaims{
		UserID:    1,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	tokenExpired := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsExpired)
	tokenStringExpired, err := tokenExpired.SignedString([]byte("access_secret_for_testing"))
	require.NoError(t, err)

	_, err = manager.Verify(tokenStringExpired, TokenKindAccess)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyToken_ExpiryMatchesTTL(t *testing.T) {
	manager := testTokenManager()

	tokenString, err := manager.Issue(1, uuid.New(), TokenKindRefresh)
	require.NoError(t, err)

	claims, err := manager.Verify(tokenString, TokenKindRefresh)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyToken_Garbage(t *testing.T) {
	manager := testTokenManager()

	_, err := manager.Verify("not.a.token", TokenKindAccess)
	require.Error(t, err)
}
