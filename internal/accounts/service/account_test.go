package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/internal/accounts/mail"
	"github.com/restguide/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/restguide/accounts/pkg/jwtx"
)

// mailerStub records outgoing messages in-process and can be flipped into a
// failing mode to exercise delivery error paths.
type mailerStub struct {
	mu   sync.Mutex
	sent []mail.Message
	fail error
}

func (m *mailerStub) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailerStub) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *mailerStub) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *mailerStub) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func newTestService(t *testing.T) (*AccountService, *mailerStub, *jwtx.HS256) {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("test-secret-test-secret-test-secret"), "restguide-accounts", time.Hour)
	require.NoError(t, err)

	mailer := &mailerStub{}
	svc := &AccountService{
		Store:      st,
		Mailer:     mailer,
		Tokens:     signer,
		TOTPIssuer: "RESTGuide",
	}
	return svc, mailer, signer
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) *domain.Error {
	t.Helper()
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, kind, derr.Kind)
	return derr
}

func registerUser(t *testing.T, svc *AccountService, email string) domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "super-secret",
		FirstName:   "June",
		LastName:    "Osborne",
		RedirectURL: "https://app.example.com/confirm",
	})
	require.NoError(t, err)
	return user
}

func confirmUser(t *testing.T, svc *AccountService, user domain.User) domain.User {
	t.Helper()
	require.NoError(t, svc.ConfirmAccount(context.Background(), user.ConfirmationToken))
	confirmed, err := svc.Store.Users().GetUserByEmail(context.Background(), user.Email)
	require.NoError(t, err)
	return confirmed
}

func TestRegister(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "june@example.com")
	require.NotEmpty(t, user.ID)
	require.Equal(t, domain.LevelPending, user.ConfirmationLevel)
	require.NotEmpty(t, user.ConfirmationToken)
	require.NotEqual(t, "super-secret", user.PasswordHash)

	// The confirmation email is sent off the request path.
	require.Eventually(t, func() bool { return mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	msg := mailer.last()
	require.Equal(t, "june@example.com", msg.To)
	require.Contains(t, msg.HTML, "token="+user.ConfirmationToken)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Email:       "June@Example.com",
			Password:    "super-secret",
			FirstName:   "June",
			LastName:    "Osborne",
			RedirectURL: "https://app.example.com/confirm",
		})
		derr := requireKind(t, err, domain.KindUnprocessable)
		require.Equal(t, MsgDuplicateEmail, derr.Message)
	})

	t.Run("invalid payload", func(t *testing.T) {
		tests := []struct {
			name string
			req  RegisterRequest
		}{
			{"missing email", RegisterRequest{Password: "super-secret", FirstName: "A", LastName: "B", RedirectURL: "https://x.example.com"}},
			{"malformed email", RegisterRequest{Email: "nope", Password: "super-secret", FirstName: "A", LastName: "B", RedirectURL: "https://x.example.com"}},
			{"short password", RegisterRequest{Email: "b@example.com", Password: "short", FirstName: "A", LastName: "B", RedirectURL: "https://x.example.com"}},
			{"missing redirect", RegisterRequest{Email: "b@example.com", Password: "super-secret", FirstName: "A", LastName: "B"}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Register(ctx, tc.req)
				requireKind(t, err, domain.KindBadRequest)
			})
		}
	})
}

func TestConfirmAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "confirm@example.com")
	token := user.ConfirmationToken

	require.NoError(t, svc.ConfirmAccount(ctx, token))

	confirmed, err := svc.Store.Users().GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, domain.LevelConfirmed, confirmed.ConfirmationLevel)
	require.NotEqual(t, token, confirmed.ConfirmationToken)

	t.Run("used token is burnt", func(t *testing.T) {
		err := svc.ConfirmAccount(ctx, token)
		derr := requireKind(t, err, domain.KindNotFound)
		require.Equal(t, MsgNotFoundOrConfirmed, derr.Message)
	})

	t.Run("empty token", func(t *testing.T) {
		requireKind(t, svc.ConfirmAccount(ctx, ""), domain.KindBadRequest)
	})

	t.Run("unknown token", func(t *testing.T) {
		requireKind(t, svc.ConfirmAccount(ctx, "no-such-token"), domain.KindNotFound)
	})
}

func TestResendConfirmationEmail(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "resend@example.com")
	require.Eventually(t, func() bool { return mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	req := ResendConfirmationRequest{Email: "resend@example.com", RedirectURL: "https://app.example.com/confirm"}

	refreshed, err := svc.ResendConfirmationEmail(ctx, req)
	require.NoError(t, err)
	require.NotEqual(t, user.ConfirmationToken, refreshed.ConfirmationToken)
	require.Equal(t, 2, mailer.count())
	require.Contains(t, mailer.last().HTML, "token="+refreshed.ConfirmationToken)

	t.Run("each resend rotates the token", func(t *testing.T) {
		again, err := svc.ResendConfirmationEmail(ctx, req)
		require.NoError(t, err)
		require.NotEqual(t, refreshed.ConfirmationToken, again.ConfirmationToken)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.ResendConfirmationEmail(ctx, ResendConfirmationRequest{
			Email:       "ghost@example.com",
			RedirectURL: "https://app.example.com/confirm",
		})
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("already confirmed", func(t *testing.T) {
		confirmUser(t, svc, mustGetUser(t, svc, "resend@example.com"))
		_, err := svc.ResendConfirmationEmail(ctx, req)
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("delivery failure surfaces", func(t *testing.T) {
		registerUser(t, svc, "resend2@example.com")
		mailer.setFail(errors.New("smtp down"))
		defer mailer.setFail(nil)

		_, err := svc.ResendConfirmationEmail(ctx, ResendConfirmationRequest{
			Email:       "resend2@example.com",
			RedirectURL: "https://app.example.com/confirm",
		})
		requireKind(t, err, domain.KindInternal)
	})
}

func TestLogIn(t *testing.T) {
	svc, _, signer := newTestService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "login@example.com")

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.LogIn(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
		derr := requireKind(t, err, domain.KindNotAuthenticated)
		require.Equal(t, MsgUserNotFound, derr.Message)
	})

	t.Run("wrong password beats confirmation state", func(t *testing.T) {
		// Account is still PENDING here; the password failure must win.
		_, err := svc.LogIn(ctx, LoginRequest{Email: "login@example.com", Password: "wrong-password"})
		derr := requireKind(t, err, domain.KindNotAuthenticated)
		require.Equal(t, MsgInvalidPassword, derr.Message)
	})

	t.Run("unconfirmed account", func(t *testing.T) {
		_, err := svc.LogIn(ctx, LoginRequest{Email: "login@example.com", Password: "super-secret"})
		derr := requireKind(t, err, domain.KindNotAuthenticated)
		require.Equal(t, MsgAccountNotConfirmed, derr.Message)
	})

	confirmUser(t, svc, user)

	res, err := svc.LogIn(ctx, LoginRequest{Email: "Login@Example.com", Password: "super-secret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, res.User.ID)
	require.Equal(t, domain.LevelConfirmed, res.User.ConfirmationLevel)

	t.Run("token identifies the user", func(t *testing.T) {
		claims, err := signer.Verify(res.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, string(domain.LevelConfirmed), claims.ConfirmationLevel)
		require.NotNil(t, claims.IsAdmin)
		require.False(t, *claims.IsAdmin)
	})

	t.Run("projection never leaks secrets", func(t *testing.T) {
		raw, err := json.Marshal(res)
		require.NoError(t, err)
		require.NotContains(t, string(raw), user.PasswordHash)
		require.NotContains(t, string(raw), "passwordHash")
		require.NotContains(t, string(raw), "confirmationToken")
	})
}

func TestPasswordReset(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	user := registerUser(t, svc, "reset@example.com")
	confirmUser(t, svc, user)
	require.Eventually(t, func() bool { return mailer.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.RequestNewPassword(ctx, RequestNewPasswordRequest{
		Email:       "reset@example.com",
		RedirectURL: "https://app.example.com/reset",
	}))
	require.Equal(t, 2, mailer.count())
	require.Equal(t, "Reset Password Instructions", mailer.last().Subject)

	current := mustGetUser(t, svc, "reset@example.com")

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{
		Token:    current.ConfirmationToken,
		Password: "brand-new-password",
	}))

	t.Run("old password rejected, new accepted", func(t *testing.T) {
		_, err := svc.LogIn(ctx, LoginRequest{Email: "reset@example.com", Password: "super-secret"})
		derr := requireKind(t, err, domain.KindNotAuthenticated)
		require.Equal(t, MsgInvalidPassword, derr.Message)

		_, err = svc.LogIn(ctx, LoginRequest{Email: "reset@example.com", Password: "brand-new-password"})
		require.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: "no-such-token", Password: "another-password"})
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("unknown email on request", func(t *testing.T) {
		err := svc.RequestNewPassword(ctx, RequestNewPasswordRequest{
			Email:       "ghost@example.com",
			RedirectURL: "https://app.example.com/reset",
		})
		requireKind(t, err, domain.KindNotFound)
	})
}

func mustGetUser(t *testing.T, svc *AccountService, email string) domain.User {
	t.Helper()
	user, err := svc.Store.Users().GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return user
}
