package http

import (
	"net/http"

	"github.com/restguide/accounts/internal/accounts/service"
	"github.com/restguide/accounts/pkg/httpx"
	"github.com/restguide/accounts/pkg/slogx"
)

// TwoFactorHandler handles the authenticated two-factor endpoints. The user
// id comes from the session token, never from the request.
type TwoFactorHandler struct {
	Accounts *service.AccountService
}

type twoFactorCodeRequest struct {
	Token string `json:"token"`
}

// HandleInit handles PUT /auth/two-factor-auth/initialization.
//
// Generates (or regenerates) the user's TOTP secret and responds with the
// QR code to scan.
func (h *TwoFactorHandler) HandleInit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	enrollment, err := h.Accounts.InitTwoFactor(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, log, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, enrollment)
}

// HandleActivate handles PUT /auth/two-factor-auth/activation.
func (h *TwoFactorHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req twoFactorCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, log, err)
		return
	}

	if err := h.Accounts.CompleteTwoFactor(ctx, httpx.UserIDFromContext(ctx), req.Token); err != nil {
		writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleVerify handles HEAD /auth/two-factor-auth/verification?token=...
//
// HEAD carries no body either way; the status code is the whole answer.
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := r.URL.Query().Get("token")
	if err := h.Accounts.VerifyTwoFactorCode(ctx, httpx.UserIDFromContext(ctx), code); err != nil {
		w.WriteHeader(statusFromError(log, err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
