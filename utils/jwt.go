package utils

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"kigalimove/config"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID    string
	Role      string
	SessionID string
}

var (
	devSecretOnce sync.Once
	devSecret     []byte
)

// secretKey returns JWT_SECRET. Without one (development only, config refuses
// production) every process signs with its own random key.
func secretKey() []byte {
	if secret := config.AppConfig.JWTSecret; secret != "" {
		return []byte(secret)
	}
	devSecretOnce.Do(func() {
		devSecret = make([]byte, 32)
		if _, err := rand.Read(devSecret); err != nil {
			GetLogger().Sugar().Fatalf("utils: failed to generate a development JWT secret: %v", err)
		}
		GetLogger().Warn("utils: JWT_SECRET not set, using a random per-process secret")
	})
	return devSecret
}

// GenerateToken creates a signed JWT for a login session. The token expires after duration.
func GenerateToken(userID, role, sessionID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"sid":  sessionID,
		"iat":  now.Unix(),
		"exp":  now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ParseSessionToken extracts the session claims from a valid token.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || sid == "" {
		return nil, errors.New("token does not contain a valid 'sub' or 'sid' claim")
	}
	return &SessionClaims{UserID: sub, Role: role, SessionID: sid}, nil
}
