// Package auth issues and verifies the seat tokens that authorize moves
// in live matches. A token binds one seat (X or O) of one match; it
// carries no user identity.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims binds a token to one seat of one match.
type Claims struct {
	MatchID uuid.UUID `json:"mid"`
	Seat    string    `json:"seat"` // "X" or "O"
	jwt.RegisteredClaims
}

// Issuer signs and verifies seat tokens with a shared HMAC secret.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
}

// Issue returns a signed HS256 token for one seat of one match.
func (i Issuer) Issue(matchID uuid.UUID, seat string) (string, error) {
	if len(i.Secret) == 0 {
		return "", fmt.Errorf("token secret is empty")
	}
	now := time.Now()
	claims := Claims{
		MatchID: matchID,
		Seat:    seat,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
}

// Verify parses tokenString and returns its claims when the signature and
// the expiry check out.
func (i Issuer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.Secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}
	return claims, nil
}
