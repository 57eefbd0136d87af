package urlx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithParams(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{"url with query params", "https://example.com?param1=value1", "https://example.com?param1=value1&param2=value2"},
		{"url without query params", "https://example.com", "https://example.com?param2=value2"},
		{"url ending in bare question mark", "https://example.com?", "https://example.com?param2=value2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithParams(tt.rawURL, "param2=value2")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("relative url rejected", func(t *testing.T) {
		_, err := WithParams("/confirm", "token=abc")
		require.Error(t, err)
	})
}
