package utils

import (
	"errors"
	"testing"
	"time"

	"kigalimove/config"

	"github.com/golang-jwt/jwt"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.JWTSecret = secret
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestSessionTokenRoundTrip(t *testing.T) {
	withSecret(t, "configured-secret")
	token, err := GenerateToken("u1", "admin", "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "admin" || claims.SessionID != "sid-1" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestEmptySecretIsNotGuessable(t *testing.T) {
	withSecret(t, "")
	token, err := GenerateToken("u1", "admin", "sid-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseSessionToken(token); err != nil {
		t.Fatalf("token from this process rejected: %v", err)
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1", "role": "admin", "sid": "sid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("kigalimove-dev-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseSessionToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with a well-known key accepted: %v", err)
	}
}
