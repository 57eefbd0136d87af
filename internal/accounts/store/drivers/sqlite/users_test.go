package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/internal/accounts/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, id, email, token string, level domain.ConfirmationLevel) domain.User {
	t.Helper()

	u := domain.User{
		ID:                id,
		Email:             email,
		PasswordHash:      "hash-" + id,
		FirstName:         "First",
		LastName:          "Last",
		ConfirmationLevel: level,
		ConfirmationToken: token,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestCreateUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u1", "one@example.com", "tok-1", domain.LevelPending)

	got, err := st.Users().GetUserByEmail(ctx, "one@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, domain.LevelPending, got.ConfirmationLevel)
	require.False(t, got.IsAdmin)
	require.False(t, got.TwoFactor.Active)
	require.Nil(t, got.TwoFactor.Secret)
	require.False(t, got.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID:                "u2",
			Email:             "one@example.com",
			ConfirmationLevel: domain.LevelPending,
			ConfirmationToken: "tok-2",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := st.Users().CreateUser(ctx, domain.User{
			ID:                "u1",
			Email:             "other@example.com",
			ConfirmationLevel: domain.LevelPending,
			ConfirmationToken: "tok-3",
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("lookup miss", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestConfirmByToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u1", "one@example.com", "tok-1", domain.LevelPending)

	got, err := st.Users().ConfirmByToken(ctx, "tok-1", "tok-next")
	require.NoError(t, err)
	require.Equal(t, domain.LevelConfirmed, got.ConfirmationLevel)
	require.Equal(t, "tok-next", got.ConfirmationToken)

	t.Run("consumed token misses", func(t *testing.T) {
		_, err := st.Users().ConfirmByToken(ctx, "tok-1", "tok-other")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("confirmed account misses even with current token", func(t *testing.T) {
		_, err := st.Users().ConfirmByToken(ctx, "tok-next", "tok-other")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRefreshPendingToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u1", "pending@example.com", "tok-1", domain.LevelPending)
	seedUser(t, st, "u2", "confirmed@example.com", "tok-2", domain.LevelConfirmed)

	got, err := st.Users().RefreshPendingToken(ctx, "pending@example.com", "tok-fresh")
	require.NoError(t, err)
	require.Equal(t, "tok-fresh", got.ConfirmationToken)
	require.Equal(t, domain.LevelPending, got.ConfirmationLevel)

	t.Run("confirmed account misses", func(t *testing.T) {
		_, err := st.Users().RefreshPendingToken(ctx, "confirmed@example.com", "tok-fresh")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown email misses", func(t *testing.T) {
		_, err := st.Users().RefreshPendingToken(ctx, "ghost@example.com", "tok-fresh")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSetTokenByEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Works regardless of confirmation level.
	seedUser(t, st, "u1", "confirmed@example.com", "tok-1", domain.LevelConfirmed)

	got, err := st.Users().SetTokenByEmail(ctx, "confirmed@example.com", "tok-reset")
	require.NoError(t, err)
	require.Equal(t, "tok-reset", got.ConfirmationToken)

	_, err = st.Users().SetTokenByEmail(ctx, "ghost@example.com", "tok-reset")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePasswordByToken(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u1", "one@example.com", "tok-1", domain.LevelConfirmed)

	got, err := st.Users().UpdatePasswordByToken(ctx, "tok-1", "new-hash")
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.Equal(t, "tok-1", got.ConfirmationToken)

	_, err = st.Users().UpdatePasswordByToken(ctx, "no-such-token", "new-hash")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTwoFactorColumns(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "u1", "one@example.com", "tok-1", domain.LevelConfirmed)

	secret := domain.TwoFactorSecret{
		Base32: "JBSWY3DPEHPK3PXP",
		URL:    "otpauth://totp/RESTGuide:one@example.com?secret=JBSWY3DPEHPK3PXP",
	}
	require.NoError(t, st.Users().SetTwoFactorSecret(ctx, "u1", secret))

	got, err := st.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.False(t, got.TwoFactor.Active)
	require.NotNil(t, got.TwoFactor.Secret)
	require.Equal(t, secret, *got.TwoFactor.Secret)

	require.NoError(t, st.Users().ActivateTwoFactor(ctx, "u1"))

	got, err = st.Users().GetUserByID(ctx, "u1")
	require.NoError(t, err)
	require.True(t, got.TwoFactor.Active)

	t.Run("unknown user", func(t *testing.T) {
		require.ErrorIs(t, st.Users().SetTwoFactorSecret(ctx, "ghost", secret), store.ErrNotFound)
		require.ErrorIs(t, st.Users().ActivateTwoFactor(ctx, "ghost"), store.ErrNotFound)
	})
}
