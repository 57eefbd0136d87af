package service

import (
	"context"
	"errors"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/internal/accounts/store"
	"github.com/restguide/accounts/pkg/totpx"
)

// TwoFactorEnrollment is the payload returned from enrollment: the QR code
// an authenticator app scans, as a PNG data URL. The secret itself never
// leaves the server in raw form.
type TwoFactorEnrollment struct {
	QRCode string `json:"qrCode"`
}

// InitTwoFactor generates a fresh TOTP secret for the user, persists it in
// the unconfirmed state, and returns the scannable enrollment code.
// Re-initialising overwrites any previous unconfirmed secret.
func (s *AccountService) InitTwoFactor(ctx context.Context, userID string) (TwoFactorEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TwoFactorEnrollment{}, domain.NotFound(MsgUserNotFound)
		}
		return TwoFactorEnrollment{}, domain.Internal(err)
	}

	secret, err := totpx.Generate(s.TOTPIssuer, user.Email)
	if err != nil {
		return TwoFactorEnrollment{}, domain.Internal(err)
	}

	qrCode, err := totpx.QRCode(secret)
	if err != nil {
		return TwoFactorEnrollment{}, domain.Internal(err)
	}

	err = s.Store.Users().SetTwoFactorSecret(ctx, userID, domain.TwoFactorSecret{
		Base32: secret.Base32,
		URL:    secret.URL,
	})
	if err != nil {
		return TwoFactorEnrollment{}, domain.Internal(err)
	}

	return TwoFactorEnrollment{QRCode: qrCode}, nil
}

// CompleteTwoFactor activates two-factor auth once the user proves they hold
// the enrolled secret by presenting a valid current code. An account with no
// enrolled secret fails the code check, not a separate precondition.
func (s *AccountService) CompleteTwoFactor(ctx context.Context, userID, code string) error {
	if code == "" {
		return domain.BadRequest("two-factor token is required")
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound(MsgUserNotFound)
		}
		return domain.Internal(err)
	}

	if !totpx.Validate(storedSecret(user), code) {
		return domain.Unprocessable(MsgInvalidTwoFactor)
	}

	if err := s.Store.Users().ActivateTwoFactor(ctx, userID); err != nil {
		return domain.Internal(err)
	}

	return nil
}

// VerifyTwoFactorCode is the pure step-up check: no mutation, just "does
// this code belong to this active account right now".
func (s *AccountService) VerifyTwoFactorCode(ctx context.Context, userID, code string) error {
	if code == "" {
		return domain.BadRequest("two-factor token is required")
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound(MsgUserNotFound)
		}
		return domain.Internal(err)
	}

	if !user.TwoFactor.Active {
		return domain.Unprocessable(MsgTwoFactorNotEnabled)
	}

	if !totpx.Validate(storedSecret(user), code) {
		return domain.Unprocessable(MsgInvalidTwoFactor)
	}

	return nil
}

func storedSecret(user domain.User) totpx.Secret {
	if user.TwoFactor.Secret == nil {
		return totpx.Secret{}
	}
	return totpx.Secret{
		Base32: user.TwoFactor.Secret.Base32,
		URL:    user.TwoFactor.Secret.URL,
	}
}
