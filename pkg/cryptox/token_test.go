package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("hex encoded with requested entropy", func(t *testing.T) {
		token, err := GenerateToken(ConfirmationTokenSize)
		require.NoError(t, err)
		require.Len(t, token, ConfirmationTokenSize*2)

		_, err = hex.DecodeString(token)
		require.NoError(t, err)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)
		_, err = GenerateToken(-1)
		require.Error(t, err)
	})
}

func TestNewConfirmationTokenUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		token := NewConfirmationToken()
		_, dup := seen[token]
		require.False(t, dup, "confirmation tokens must never repeat")
		seen[token] = struct{}{}
	}
}
