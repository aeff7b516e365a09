package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// NewOpaqueToken returns n random bytes encoded as a URL-safe string.
// Used for single-use activation tokens; 32 bytes gives 256 bits of entropy.
func NewOpaqueToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
