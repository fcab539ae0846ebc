package order

import (
	"crypto/rand"
	"fmt"
)

const (
	idAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength      = 6
	maxIDAttempts = 5
)

// NewOrderID returns a random tracking code of six upper-case letters and digits.
func NewOrderID() (string, error) {
	// Bytes at or above this bound are rejected so every symbol is equally likely.
	const bound = 256 - 256%len(idAlphabet)

	out := make([]byte, 0, idLength)
	buf := make([]byte, idLength*2)
	for len(out) < idLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate order id: %w", err)
		}
		for _, b := range buf {
			if int(b) >= bound {
				continue
			}
			out = append(out, idAlphabet[int(b)%len(idAlphabet)])
			if len(out) == idLength {
				break
			}
		}
	}
	return string(out), nil
}

// IsOrderID reports whether s has the shape of a tracking code.
func IsOrderID(s string) bool {
	if len(s) != idLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
