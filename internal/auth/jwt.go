// Package auth verifies platform-issued bearer tokens. Identity issuance
// lives in the platform; this service only checks the signature and pulls
// out the principal.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenManager struct {
	secret []byte
	issuer string
}

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Parse verifies an HS256 token and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if tm.issuer != "" {
		opts = append(opts, jwt.WithIssuer(tm.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return tm.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("missing uid claim")
	}
	return claims, nil
}

// Generate mints a token with this manager's secret. The platform does this
// in production; it exists here for tests and local tooling.
func (tm *TokenManager) Generate(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}
