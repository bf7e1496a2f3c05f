package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type AppClaims struct {
	UserID    int64     `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenManager signs and verifies access and refresh tokens. The two kinds
// use separate secrets, so a token minted for one kind never verifies as
// the other.
type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.cfg.RefreshTTL
}

func (m *TokenManager) secretFor(kind TokenKind) string {
	if kind == TokenKindRefresh {
		return m.cfg.RefreshSecret
	}
	return m.cfg.AccessSecret
}

func (m *TokenManager) ttlFor(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return m.cfg.RefreshTTL
	}
	return m.cfg.AccessTTL
}

func (m *TokenManager) Issue(userID int64, sessionID uuid.UUID, kind TokenKind) (string, error) {
	expirationTime := time.Now().Add(m.ttlFor(kind))

	claims := &AppClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "katalog-miejsc",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(m.secretFor(kind)))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (m *TokenManager) Verify(tokenString string, kind TokenKind) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.secretFor(kind)), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AppClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
