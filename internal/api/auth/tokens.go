package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmelim/userbase/config"
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the token pair attached to successful
// register/login/refresh responses. Token issuance is a boundary side
// effect; use cases never see it.
type TokenIssuer struct {
	cfg config.JWTConfig
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// IssuePair returns a fresh access and refresh token for the user.
func (t *TokenIssuer) IssuePair(userID uuid.UUID) (string, string, error) {
	access, err := t.sign(userID, []byte(t.cfg.SecretKey), t.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := t.sign(userID, []byte(t.cfg.RefreshSecretKey), t.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("signing refresh token: %w", err)
	}
	return access, refresh, nil
}

func (t *TokenIssuer) sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccess validates an access token and returns the caller id.
func (t *TokenIssuer) ParseAccess(tokenString string) (uuid.UUID, error) {
	return t.parse(tokenString, []byte(t.cfg.SecretKey))
}

// ParseRefresh validates a refresh token and returns the caller id.
func (t *TokenIssuer) ParseRefresh(tokenString string) (uuid.UUID, error) {
	return t.parse(tokenString, []byte(t.cfg.RefreshSecretKey))
}

func (t *TokenIssuer) parse(tokenString string, secret []byte) (uuid.UUID, error) {
	claims := &Claims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, parserOpts...)
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id claim: %w", err)
	}
	return userID, nil
}
