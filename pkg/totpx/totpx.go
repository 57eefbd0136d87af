// Package totpx wraps time-based one-time password generation for the
// two-factor enrollment flow: shared-secret generation, QR rendering for
// authenticator apps, and code validation.
package totpx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// qrSize is the edge length in pixels of the rendered QR code.
const qrSize = 200

// Secret is the per-user shared secret in both the form authenticator apps
// consume (otpauth URL) and the form code validation needs (base32 seed).
type Secret struct {
	Base32 string
	URL    string
}

// Generate produces a fresh shared secret tagged with the issuer name and
// the given account label (typically the user's email).
func Generate(issuer, account string) (Secret, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Secret{}, fmt.Errorf("totpx: generate secret: %w", err)
	}

	return Secret{
		Base32: key.Secret(),
		URL:    key.URL(),
	}, nil
}

// QRCode renders the secret's otpauth URL as a scannable PNG, returned as a
// base64 data URL. A malformed URL is an error for the caller, not something
// to swallow.
func QRCode(secret Secret) (string, error) {
	key, err := otp.NewKeyFromURL(secret.URL)
	if err != nil {
		return "", fmt.Errorf("totpx: parse otpauth url: %w", err)
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("totpx: render qr code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("totpx: encode qr png: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CurrentCode computes the one-time code for the current time step.
func CurrentCode(secret Secret) (string, error) {
	code, err := totp.GenerateCode(secret.Base32, time.Now())
	if err != nil {
		return "", fmt.Errorf("totpx: generate code: %w", err)
	}
	return code, nil
}

// Validate reports whether the candidate code matches the secret for the
// current time step, within the primitive's own skew window. A missing or
// malformed secret validates nothing: the answer is false, not an error.
func Validate(secret Secret, code string) bool {
	if secret.Base32 == "" {
		return false
	}
	return totp.Validate(code, secret.Base32)
}
