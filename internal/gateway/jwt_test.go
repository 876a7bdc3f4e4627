package gateway

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyToken_ValidReturnsSubject(t *testing.T) {
	token := signToken(t, "secret", time.Now().Add(time.Hour))
	sub, err := verifyToken(token, "secret", "HS256")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("expected subject user-1, got %q", sub)
	}
}

func TestVerifyToken_ExpiredReturnsAuthExpired(t *testing.T) {
	token := signToken(t, "secret", time.Now().Add(-time.Hour))
	_, err := verifyToken(token, "secret", "HS256")
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}

func TestVerifyToken_WrongSecretReturnsAuthInvalid(t *testing.T) {
	token := signToken(t, "secret", time.Now().Add(time.Hour))
	_, err := verifyToken(token, "wrong-secret", "HS256")
	if !errors.Is(err, ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
}
