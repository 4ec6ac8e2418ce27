package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type staffRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &staffRepoPG{pool: pool}
}

const accountCols = `id, username, name, role, password_hash, totp_secret, totp_enabled, created_at`

func (r *staffRepoPG) Create(ctx context.Context, a *Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_accounts (id, username, name, role, password_hash)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.Username, a.Name, a.Role, a.PasswordHash)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}

func (r *staffRepoPG) GetByUsername(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := r.pool.QueryRow(ctx,
		`SELECT `+accountCols+` FROM staff_accounts WHERE username = $1`, username).
		Scan(&a.ID, &a.Username, &a.Name, &a.Role, &a.PasswordHash,
			&a.TOTPSecret, &a.TOTPEnabled, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *staffRepoPG) SetTOTPSecret(ctx context.Context, username, secret string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE staff_accounts SET totp_secret = $2, totp_enabled = FALSE
		WHERE username = $1`, username, secret)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffRepoPG) EnableTOTP(ctx context.Context, username string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE staff_accounts SET totp_enabled = TRUE
		WHERE username = $1 AND totp_secret IS NOT NULL`, username)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
