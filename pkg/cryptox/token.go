package cryptox

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ConfirmationTokenSize is the entropy (in bytes, before encoding) of the
// opaque tokens that correlate pending account transitions (email
// confirmation, password reset) to a single account.
const ConfirmationTokenSize = 32

// GenerateToken creates a cryptographically secure random token of the given
// byte length, hex encoded. Returns an error only if the system RNG fails.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewConfirmationToken returns a fresh single-use confirmation token.
// It panics if the RNG fails; there is no sane way to continue without one.
func NewConfirmationToken() string {
	token, err := GenerateToken(ConfirmationTokenSize)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate confirmation token: %v", err))
	}
	return token
}
