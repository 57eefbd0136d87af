package http

import (
	"net/http"

	"github.com/restguide/accounts/internal/accounts/service"
	"github.com/restguide/accounts/pkg/httpx"
	"github.com/restguide/accounts/pkg/slogx"
)

// AuthHandler handles the unauthenticated account lifecycle endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
}

// HandleRegister handles POST /auth/registration.
//
// Creates a PENDING account and kicks off the confirmation email. The email
// is delivered off the request path, so success here only means the account
// exists.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if _, err := h.Accounts.Register(ctx, req); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResendConfirmation handles POST /auth/resend-confirmation-email.
func (h *AuthHandler) HandleResendConfirmation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.ResendConfirmationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if _, err := h.Accounts.ResendConfirmationEmail(ctx, req); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleConfirm handles PUT /auth/confirmation?token=...
func (h *AuthHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if err := h.Accounts.ConfirmAccount(ctx, token); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogin handles POST /auth/login.
//
// Responds with the user profile and a session token on success.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	res, err := h.Accounts.LogIn(ctx, req)
	if err != nil {
		writeError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleRequestNewPassword handles POST /auth/request-new-password.
func (h *AuthHandler) HandleRequestNewPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.RequestNewPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.Accounts.RequestNewPassword(ctx, req); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResetPassword handles PUT /auth/password.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.Accounts.ResetPassword(ctx, req); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
