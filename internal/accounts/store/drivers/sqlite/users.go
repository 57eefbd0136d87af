package sqlite

import (
	"context"
	"database/sql"

	"github.com/restguide/accounts/internal/accounts/domain"
	"github.com/restguide/accounts/internal/accounts/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, email, password_hash, first_name, last_name,
	confirmation_level, confirmation_token, is_admin,
	twofactor_active, twofactor_secret, twofactor_url,
	created_at, updated_at`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var secret, url sql.NullString
	if u.TwoFactor.Secret != nil {
		secret = mapStringNull(u.TwoFactor.Secret.Base32)
		url = mapStringNull(u.TwoFactor.Secret.URL)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			confirmation_level, confirmation_token, is_admin,
			twofactor_active, twofactor_secret, twofactor_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, mapStringNull(u.PasswordHash), u.FirstName, u.LastName,
		string(u.ConfirmationLevel), u.ConfirmationToken, u.IsAdmin,
		u.TwoFactor.Active, secret, url,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// The conditional updates below are single statements on purpose: the match
// condition and the mutation happen atomically in SQLite, so two concurrent
// calls can never both consume the same token.

func (r *usersRepo) RefreshPendingToken(ctx context.Context, email, newToken string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET confirmation_token = ?, updated_at = CURRENT_TIMESTAMP
		WHERE email = ? AND confirmation_level = ?
		RETURNING `+userColumns,
		newToken, email, string(domain.LevelPending),
	)
	return scanUser(row)
}

func (r *usersRepo) ConfirmByToken(ctx context.Context, token, newToken string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET confirmation_level = ?, confirmation_token = ?, updated_at = CURRENT_TIMESTAMP
		WHERE confirmation_token = ? AND confirmation_level = ?
		RETURNING `+userColumns,
		string(domain.LevelConfirmed), newToken, token, string(domain.LevelPending),
	)
	return scanUser(row)
}

func (r *usersRepo) SetTokenByEmail(ctx context.Context, email, newToken string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET confirmation_token = ?, updated_at = CURRENT_TIMESTAMP
		WHERE email = ?
		RETURNING `+userColumns,
		newToken, email,
	)
	return scanUser(row)
}

func (r *usersRepo) UpdatePasswordByToken(ctx context.Context, token, newHash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE confirmation_token = ?
		RETURNING `+userColumns,
		newHash, token,
	)
	return scanUser(row)
}

func (r *usersRepo) SetTwoFactorSecret(ctx context.Context, userID string, secret domain.TwoFactorSecret) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET twofactor_secret = ?, twofactor_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		secret.Base32, secret.URL, userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ActivateTwoFactor(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET twofactor_active = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		level        string
		passwordHash sql.NullString
		secret, url  sql.NullString
	)

	err := row.Scan(
		&u.ID, &u.Email, &passwordHash, &u.FirstName, &u.LastName,
		&level, &u.ConfirmationToken, &u.IsAdmin,
		&u.TwoFactor.Active, &secret, &url,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.ConfirmationLevel = domain.ConfirmationLevel(level)
	u.PasswordHash = mapNullString(passwordHash)
	if secret.Valid {
		u.TwoFactor.Secret = &domain.TwoFactorSecret{
			Base32: secret.String,
			URL:    mapNullString(url),
		}
	}

	return u, nil
}
