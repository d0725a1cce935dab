package entity

import (
	"time"
)

// Account is the aggregate root for the account domain.
// PasswordHash is a bcrypt hash, never the plaintext.
//
// ResetOTP and ResetOTPExpiresAt are a both-or-neither pair: they are set
// together when a recovery request is outstanding and cleared together when
// the code is consumed. A nil pair means no recovery is in flight.
type Account struct {
	ID                string
	Email             string // stored lowercased; uniqueness is case-insensitive via normalization
	PasswordHash      string
	Name              string
	Phone             string
	AvatarURL         string
	IsActive          bool
	ResetOTP          *string
	ResetOTPExpiresAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
