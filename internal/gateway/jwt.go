package gateway

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthExpired and ErrAuthInvalid distinguish the two 401 reasons
// spec.md §4.K requires distinct detail strings for.
var (
	ErrAuthExpired = errors.New("Access token expired")
	ErrAuthInvalid = errors.New("Invalid access token")
)

// Claims is the JWT payload the gateway expects: a "sub" claim naming
// the authenticated user, forwarded to upstreams as the "user" header.
type Claims struct {
	jwt.RegisteredClaims
}

// verifyToken validates tokenString against secretKey using algorithm,
// returning the subject claim on success.
func verifyToken(tokenString, secretKey, algorithm string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != algorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Method.Alg())
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrAuthExpired
		}
		return "", ErrAuthInvalid
	}
	if !token.Valid {
		return "", ErrAuthInvalid
	}
	return claims.Subject, nil
}
