package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/pkg/httpx"
)

// errorResponse is the JSON body every failed request gets.
type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// writeError maps a service error onto the wire. Internal causes are logged
// in full and replaced with the generic message; every other kind is safe to
// show as-is.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.Internal(err)
	}

	if derr.IsInternal() {
		log.Error("request failed", "err", derr.Details)
		httpx.WriteJSON(w, derr.Status, errorResponse{Error: derr.Message})
		return
	}

	httpx.WriteJSON(w, derr.Status, errorResponse{Error: derr.Message, Details: derr.Details})
}

// statusFromError is writeError for bodiless responses (HEAD).
func statusFromError(log *slog.Logger, err error) int {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.Internal(err)
	}
	if derr.IsInternal() {
		log.Error("request failed", "err", derr.Details)
	}
	return derr.Status
}

// decodeJSON parses a request body into dst, reporting malformed input as a
// client error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.BadRequest("invalid JSON body")
	}
	return nil
}
