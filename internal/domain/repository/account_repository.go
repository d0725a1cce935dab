package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Hammad55553/account-service/internal/domain/entity"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a create collides with the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// AccountRepository defines the store contract for accounts. Implementations
// must serialize concurrent writes to the same row.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetResetOTP stores the code/expiry pair on the account, replacing any
	// pending pair (last write wins).
	SetResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error

	// ConsumeResetOTP atomically matches an unexpired pending code, writes the
	// new password hash, and clears the pair. It returns the account id on
	// success and ErrNotFound when nothing matched, without distinguishing a
	// wrong code from an expired one.
	ConsumeResetOTP(ctx context.Context, otp, passwordHash string) (string, error)
}
