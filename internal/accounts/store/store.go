// Package store defines the persistence boundary for user records. Concrete
// drivers (sqlite today) implement Store; services only ever see these
// interfaces.
package store

import (
	"context"
	"errors"

	"github.com/restguide/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is keyed access to user records. Every mutation that has a
// precondition ("a PENDING account with this token exists") is a single
// conditional update: the store checks and mutates atomically, so callers
// never do a read-modify-write pair. A mutation whose condition matched no
// row returns ErrNotFound.
type Users interface {
	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is already taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by (lower-cased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// RefreshPendingToken sets a fresh confirmation token on the PENDING
	// account with the given email and returns the updated record.
	RefreshPendingToken(ctx context.Context, email, newToken string) (domain.User, error)

	// ConfirmByToken promotes the PENDING account holding token to
	// CONFIRMED, burning the used token by writing newToken in its place.
	ConfirmByToken(ctx context.Context, token, newToken string) (domain.User, error)

	// SetTokenByEmail sets a fresh confirmation token on the account with
	// the given email regardless of confirmation level.
	SetTokenByEmail(ctx context.Context, email, newToken string) (domain.User, error)

	// UpdatePasswordByToken sets a new password hash on the account holding
	// the given confirmation token. The token itself is left untouched.
	UpdatePasswordByToken(ctx context.Context, token, newHash string) (domain.User, error)

	// SetTwoFactorSecret stores an (unconfirmed) TOTP secret for the user.
	SetTwoFactorSecret(ctx context.Context, userID string, secret domain.TwoFactorSecret) error

	// ActivateTwoFactor marks two-factor auth active for the user.
	ActivateTwoFactor(ctx context.Context, userID string) error
}
