package mail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation(t *testing.T) {
	html, err := RenderConfirmation("Jane", "https://app.example.com/confirm?token=abc123")
	require.NoError(t, err)
	require.Contains(t, html, "Jane")
	require.Contains(t, html, "https://app.example.com/confirm?token=abc123")
	require.Contains(t, html, "Confirm my account")
}

func TestRenderConfirmationWithoutName(t *testing.T) {
	html, err := RenderConfirmation("", "https://app.example.com/confirm?token=abc")
	require.NoError(t, err)
	require.Contains(t, html, "Welcome to RESTGuide!")
}

func TestRenderPasswordReset(t *testing.T) {
	html, err := RenderPasswordReset("Jane", "https://app.example.com/reset?token=xyz")
	require.NoError(t, err)
	require.Contains(t, html, "https://app.example.com/reset?token=xyz")
	require.Contains(t, html, "Choose a new password")
}

func TestRenderEscapesUntrustedName(t *testing.T) {
	html, err := RenderConfirmation("<script>alert(1)</script>", "https://app.example.com")
	require.NoError(t, err)
	require.NotContains(t, html, "<script>")
}
