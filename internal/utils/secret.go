package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// resetSecretBytes is the entropy of a freshly generated reset secret.
const resetSecretBytes = 32

// NewResetSecret generates a cryptographically random single-use secret,
// URL-safe for embedding in a reset link.
func NewResetSecret() (string, error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating reset secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// DigestSecret returns the hex-encoded SHA-256 digest of a secret. Only the
// digest is ever persisted; a copy of the stored table cannot be replayed as
// valid reset links.
func DigestSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
