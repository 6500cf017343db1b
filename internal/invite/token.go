package invite

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes yields 256 bits of entropy per token.
const tokenBytes = 32

// NewToken generates a cryptographically random, URL-safe opaque token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
