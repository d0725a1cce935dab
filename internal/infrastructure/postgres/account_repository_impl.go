package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hammad55553/account-service/internal/domain/entity"
	"github.com/Hammad55553/account-service/internal/domain/repository"
)

const accountColumns = `id, email, password_hash, name, phone, avatar_url, is_active,
	reset_otp, reset_otp_expires_at, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash, name, phone, avatar_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.Email, a.PasswordHash, a.Name, a.Phone, a.AvatarURL, a.IsActive)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *AccountRepository) getBy(ctx context.Context, where string, arg any) (*entity.Account, error) {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, arg)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &a.AvatarURL,
		&a.IsActive, &a.ResetOTP, &a.ResetOTPExpiresAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $1, phone = $2, avatar_url = $3, updated_at = $4
		WHERE id = $5
	`, a.Name, a.Phone, a.AvatarURL, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET reset_otp = $1, reset_otp_expires_at = $2, updated_at = now()
		WHERE id = $3
	`, otp, expiresAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ConsumeResetOTP matches the pending code and its expiry in the same
// statement that rotates the hash and clears the pair. Postgres row locking
// serializes a concurrent SetResetOTP on the same account, so the pair is
// never half-updated and a consumed code cannot match twice. The inner
// select pins the update to one row even if two accounts happen to hold the
// same six-digit code at once.
func (r *AccountRepository) ConsumeResetOTP(ctx context.Context, otp, passwordHash string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET password_hash = $2, reset_otp = NULL, reset_otp_expires_at = NULL, updated_at = now()
		WHERE id = (
			SELECT id FROM accounts
			WHERE reset_otp = $1 AND reset_otp_expires_at > now()
			LIMIT 1
		)
		RETURNING id
	`, otp, passwordHash).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
