package service

import (
	"context"
	"errors"
	"strings"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/internal/accounts/store"
	"github.com/restguide/accounts/pkg/cryptox"
	"github.com/restguide/accounts/pkg/idx"
	"github.com/restguide/accounts/pkg/validatex"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	RedirectURL string `json:"redirectUrl" validate:"required,url"`
}

type ResendConfirmationRequest struct {
	Email       string `json:"email" validate:"required,email"`
	RedirectURL string `json:"redirectUrl" validate:"required,url"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the successful login payload: the user projection plus the
// issued session token.
type LoginResult struct {
	User  domain.Profile `json:"user"`
	Token string         `json:"token"`
}

type RequestNewPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	RedirectURL string `json:"redirectUrl" validate:"required,url"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a PENDING account and fires the confirmation email.
// The email send is best-effort: a delivery failure is logged, never
// surfaced to the caller.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	if err := validatex.Struct(req); err != nil {
		return domain.User{}, domain.BadRequest(err.Error())
	}

	email := strings.ToLower(req.Email)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.User{}, domain.Unprocessable(MsgDuplicateEmail)
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, domain.Internal(err)
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, domain.Internal(err)
	}

	user := domain.User{
		ID:                idx.New().String(),
		Email:             email,
		PasswordHash:      hash,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		ConfirmationLevel: domain.LevelPending,
		ConfirmationToken: cryptox.NewConfirmationToken(),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration for the same email.
			return domain.User{}, domain.Unprocessable(MsgDuplicateEmail)
		}
		return domain.User{}, domain.Internal(err)
	}

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.sendConfirmationEmail(ctx, user, req.RedirectURL); err != nil {
			s.logger().Error("confirmation email failed", "email", user.Email, "err", err)
		}
	}()

	return user, nil
}

// ResendConfirmationEmail rotates the confirmation token of a PENDING
// account and re-sends the confirmation email.
func (s *AccountService) ResendConfirmationEmail(ctx context.Context, req ResendConfirmationRequest) (domain.User, error) {
	if err := validatex.Struct(req); err != nil {
		return domain.User{}, domain.BadRequest(err.Error())
	}

	email := strings.ToLower(req.Email)

	user, err := s.Store.Users().RefreshPendingToken(ctx, email, cryptox.NewConfirmationToken())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.NotFound(MsgUserNotFound)
		}
		return domain.User{}, domain.Internal(err)
	}

	if err := s.sendConfirmationEmail(ctx, user, req.RedirectURL); err != nil {
		return domain.User{}, domain.Internal(err)
	}

	return user, nil
}

// ConfirmAccount promotes the PENDING account holding the token to
// CONFIRMED. The used token is burnt: a fresh one replaces it atomically,
// so replaying the same confirmation link reports not found.
func (s *AccountService) ConfirmAccount(ctx context.Context, token string) error {
	if token == "" {
		return domain.BadRequest("confirmation token is required")
	}

	_, err := s.Store.Users().ConfirmByToken(ctx, token, cryptox.NewConfirmationToken())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound(MsgNotFoundOrConfirmed)
		}
		return domain.Internal(err)
	}

	return nil
}

// LogIn authenticates and issues a session token. The checks run in a fixed
// order (existence, password, confirmation level) so the reported failure is
// deterministic when several conditions fail at once: a wrong password on an
// unconfirmed account reports the password, not the confirmation state.
func (s *AccountService) LogIn(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := validatex.Struct(req); err != nil {
		return LoginResult{}, domain.BadRequest(err.Error())
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, domain.NotAuthenticated(MsgUserNotFound)
		}
		return LoginResult{}, domain.Internal(err)
	}

	if err := cryptox.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		return LoginResult{}, domain.NotAuthenticated(MsgInvalidPassword)
	}

	if user.ConfirmationLevel == domain.LevelPending {
		return LoginResult{}, domain.NotAuthenticated(MsgAccountNotConfirmed)
	}

	token, err := s.Tokens.Sign(user.ID, string(user.ConfirmationLevel), user.IsAdmin)
	if err != nil {
		return LoginResult{}, domain.Internal(err)
	}

	return LoginResult{User: user.Profile(), Token: token}, nil
}

// RequestNewPassword rotates the account's confirmation token and mails a
// reset link carrying it.
func (s *AccountService) RequestNewPassword(ctx context.Context, req RequestNewPasswordRequest) error {
	if err := validatex.Struct(req); err != nil {
		return domain.BadRequest(err.Error())
	}

	email := strings.ToLower(req.Email)

	user, err := s.Store.Users().SetTokenByEmail(ctx, email, cryptox.NewConfirmationToken())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound(MsgUserNotFound)
		}
		return domain.Internal(err)
	}

	if err := s.sendPasswordResetEmail(ctx, user, req.RedirectURL); err != nil {
		return domain.Internal(err)
	}

	return nil
}

// ResetPassword sets a new password hash on the account holding the reset
// token. The token is left in place, so a reset link stays usable until the
// next token-rotating operation touches the account.
func (s *AccountService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := validatex.Struct(req); err != nil {
		return domain.BadRequest(err.Error())
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.Internal(err)
	}

	if _, err := s.Store.Users().UpdatePasswordByToken(ctx, req.Token, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound(MsgUserNotFound)
		}
		return domain.Internal(err)
	}

	return nil
}
