package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are the session-token claims. The subject carries the user id;
// lvl and adm mirror the account's confirmation level and admin flag so
// downstream authorization can act without a store round trip.
type Claims struct {
	jwt.RegisteredClaims

	// ConfirmationLevel of the account at issue time ("pending",
	// "confirmed", "banned").
	ConfirmationLevel string `json:"lvl,omitempty"`

	// IsAdmin is a pointer so a token that omits the claim entirely can be
	// told apart from one that carries adm=false.
	IsAdmin *bool `json:"adm,omitempty"`
}

// NewSessionClaims builds claims for a session token.
func NewSessionClaims(subject, confirmationLevel string, isAdmin bool, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ConfirmationLevel: confirmationLevel,
		IsAdmin:           &isAdmin,
	}
}

// ValidateRequired enforces the payload contract: a token is only usable if
// it names a subject, a confirmation level, and an admin flag. A valid
// signature is not enough.
func (c *Claims) ValidateRequired() error {
	if c.Subject == "" || c.ConfirmationLevel == "" || c.IsAdmin == nil {
		return ErrMissingClaims
	}
	return nil
}

// ValidateExpiry ensures the token has not expired.
func (c *Claims) ValidateExpiry() error {
	if c.ExpiresAt != nil && time.Now().UTC().After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
