// Package service implements the account lifecycle: registration, email
// confirmation, login, password reset, and two-factor enrollment and
// verification.
package service

import (
	"context"
	"log/slog"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/internal/accounts/mail"
	"github.com/restguide/accounts/internal/accounts/store"
	"github.com/restguide/accounts/pkg/jwtx"
	"github.com/restguide/accounts/pkg/urlx"
)

// Stable client-facing messages for the failure modes in the lifecycle
// flows. Login deliberately distinguishes all three of its cases.
const (
	MsgUserNotFound        = "user not found"
	MsgDuplicateEmail      = "an account with this email already exists"
	MsgNotFoundOrConfirmed = "user not found or account already confirmed"
	MsgInvalidPassword     = "invalid password"
	MsgAccountNotConfirmed = "account not confirmed"
	MsgInvalidTwoFactor    = "invalid two-factor token"
	MsgTwoFactorNotEnabled = "two-factor authentication is not enabled"
)

// Signer issues session tokens.
type Signer interface {
	Sign(subject, confirmationLevel string, isAdmin bool) (string, error)
}

// AccountService orchestrates all account operations against the user store,
// the mailer, and the token signer. All dependencies are injected at
// construction; the service itself holds no mutable state.
type AccountService struct {
	Store      store.Store
	Mailer     mail.Mailer
	Tokens     Signer
	TOTPIssuer string // Issuer label shown in authenticator apps
	Logger     *slog.Logger
}

var _ Signer = (*jwtx.HS256)(nil)

func (s *AccountService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// sendConfirmationEmail mails the confirmation link for the user's current
// confirmation token.
func (s *AccountService) sendConfirmationEmail(ctx context.Context, user domain.User, redirectURL string) error {
	link, err := urlx.WithParams(redirectURL, "token="+user.ConfirmationToken)
	if err != nil {
		return err
	}

	html, err := mail.RenderConfirmation(user.FirstName, link)
	if err != nil {
		return err
	}

	return s.Mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Account Confirmation",
		HTML:    html,
	})
}

// sendPasswordResetEmail mails the reset link for the user's current
// confirmation token.
func (s *AccountService) sendPasswordResetEmail(ctx context.Context, user domain.User, redirectURL string) error {
	link, err := urlx.WithParams(redirectURL, "token="+user.ConfirmationToken)
	if err != nil {
		return err
	}

	html, err := mail.RenderPasswordReset(user.FirstName, link)
	if err != nil {
		return err
	}

	return s.Mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Reset Password Instructions",
		HTML:    html,
	})
}
