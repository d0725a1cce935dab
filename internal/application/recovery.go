package application

import (
	"context"
	"errors"
	"time"

	"github.com/Hammad55553/account-service/internal/domain/repository"
	"github.com/Hammad55553/account-service/pkg/helpers"
	"github.com/Hammad55553/account-service/pkg/mailer"
)

// RequestReset starts a password recovery for the given email. Unknown
// addresses return nil so callers respond identically either way; repeated
// requests overwrite any pending code (last write wins).
func (s *Service) RequestReset(ctx context.Context, email string) error {
	a, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.Logger != nil {
				s.Logger.WithField("email", NormalizeEmail(email)).Info("reset requested for unknown email")
			}
			return nil
		}
		return err
	}

	otp, err := helpers.GenOTPCode()
	if err != nil {
		return err
	}
	ttl := s.resetTTL()
	if err := s.Repo.SetResetOTP(ctx, a.ID, otp, time.Now().Add(ttl)); err != nil {
		return err
	}

	s.notify(ctx, a.Email, mailer.TemplateResetOTP, map[string]any{
		"Name":        a.Name,
		"Code":        otp,
		"ExpiresIn":   ttl.String(),
		"CompanyName": s.companyName(),
	})
	return nil
}

// ConfirmReset rotates the password for the account holding the given code.
// The hash is computed before touching the store so no transaction is held
// open during bcrypt. A wrong, consumed, or expired code all return
// ErrInvalidOrExpiredOTP with nothing mutated.
func (s *Service) ConfirmReset(ctx context.Context, otp, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	accountID, err := s.Repo.ConsumeResetOTP(ctx, otp, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredOTP
		}
		return err
	}

	if a, gErr := s.Repo.GetByID(ctx, accountID); gErr == nil && a != nil {
		s.notify(ctx, a.Email, mailer.TemplatePasswordChanged, map[string]any{
			"Name":        a.Name,
			"Email":       a.Email,
			"CompanyName": s.companyName(),
			"SupportURL":  s.supportURL(),
		})
	}
	return nil
}

func (s *Service) resetTTL() time.Duration {
	if s.Cfg != nil && s.Cfg.ResetOTPTTL > 0 {
		return s.Cfg.ResetOTPTTL
	}
	return 10 * time.Minute
}
