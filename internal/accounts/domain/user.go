package domain

import "time"

// ConfirmationLevel tracks whether an account's email ownership has been
// verified. BANNED is terminal and only ever set out-of-band.
type ConfirmationLevel string

const (
	LevelPending   ConfirmationLevel = "pending"
	LevelConfirmed ConfirmationLevel = "confirmed"
	LevelBanned    ConfirmationLevel = "banned"
)

// TwoFactorSecret is the shared TOTP seed in the forms the service needs:
// the base32 seed for code validation and the otpauth URL the enrollment QR
// code was rendered from.
type TwoFactorSecret struct {
	Base32 string
	URL    string
}

// TwoFactor is the two-factor authentication state of an account. A secret
// may be present while Active is still false: enrollment stores the secret
// first and only a validated code flips Active.
type TwoFactor struct {
	Active bool
	Secret *TwoFactorSecret
}

type User struct {
	ID                string
	Email             string // stored lower-cased, unique
	PasswordHash      string // bcrypt encoded, "" when not set
	FirstName         string
	LastName          string
	ConfirmationLevel ConfirmationLevel
	ConfirmationToken string // rotated on every consuming transition
	IsAdmin           bool
	TwoFactor         TwoFactor
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Profile is the client-facing projection of a user. The password hash and
// the two-factor secret never appear here.
type Profile struct {
	ID                string            `json:"id"`
	Email             string            `json:"email"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	ConfirmationLevel ConfirmationLevel `json:"confirmationLevel"`
	IsAdmin           bool              `json:"isAdmin"`
	TwoFactorActive   bool              `json:"twoFactorActive"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// Profile strips the sensitive fields from a user record.
func (u User) Profile() Profile {
	return Profile{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		ConfirmationLevel: u.ConfirmationLevel,
		IsAdmin:           u.IsAdmin,
		TwoFactorActive:   u.TwoFactor.Active,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
