package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hammad55553/account-service/internal/domain/entity"
	repo "github.com/Hammad55553/account-service/internal/domain/repository"
	"github.com/Hammad55553/account-service/pkg/helpers"
	"github.com/Hammad55553/account-service/pkg/mailer"
)

// AccountView is the subset of account fields safe to return to a caller.
// It never carries the password hash or the reset pair.
type AccountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	AvatarURL string    `json:"avatar_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewOf(a *entity.Account) *AccountView {
	return &AccountView{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Phone:     a.Phone,
		AvatarURL: a.AvatarURL,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NormalizeEmail lowers and trims the address. Email uniqueness is
// case-insensitive through this normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Signup creates an account with a hashed password. Accounts are active from
// creation; the welcome email is informational, not an activation gate.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*AccountView, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Name:         in.Name,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	s.notify(ctx, a.Email, mailer.TemplateWelcome, map[string]any{
		"Name":        a.Name,
		"CompanyName": s.companyName(),
		"SupportURL":  s.supportURL(),
	})
	s.mirrorUpsert(ctx, a)

	return viewOf(a), nil
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Authenticate validates email/password without issuing tokens. An unknown
// email and a wrong password collapse into the same error; a store failure
// is not a credential problem and propagates as-is.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.Account, error) {
	a, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// IssueTokens generates an access/refresh pair and records a session in Redis.
func (s *Service) IssueTokens(ctx context.Context, a *entity.Account) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", a.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"account_id": a.ID,
			"email":      a.Email,
			"name":       a.Name,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, a)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{AccountID: a.ID, Email: a.Email, Name: a.Name}, pair, nil
}

// Refresh rotates the session id and token pair after validating the refresh
// token against the current Redis session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	a, err := s.Repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, "", ErrInvalidCredentials
		}
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(a.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(a.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, a.ID, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*AccountView, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return viewOf(a), nil
}

func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*AccountView, error) {
	a, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return viewOf(a), nil
}

type UpdateProfileInput struct {
	Name      string
	Phone     string
	AvatarURL string
}

func (s *Service) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*AccountView, error) {
	a, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if in.Name != "" {
		a.Name = in.Name
	}
	if in.Phone != "" {
		a.Phone = in.Phone
	}
	if in.AvatarURL != "" {
		a.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(a.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"name":       a.Name,
			"updated_at": nowRFC3339(),
		})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	s.mirrorUpsert(ctx, a)
	return viewOf(a), nil
}

// ChangePassword rotates the password for a logged-in account after
// verifying the current one. The wrong current password returns
// ErrInvalidCredentials, same as a failed login.
func (s *Service) ChangePassword(ctx context.Context, accountID, current, newPassword string) error {
	a, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if !helpers.CompareHashAndPassword(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, a.ID, hash); err != nil {
		return err
	}

	s.notify(ctx, a.Email, mailer.TemplatePasswordChanged, map[string]any{
		"Name":        a.Name,
		"Email":       a.Email,
		"CompanyName": s.companyName(),
		"SupportURL":  s.supportURL(),
	})
	return nil
}

// UploadAvatar stores the image in GCS and updates the profile.
func (s *Service) UploadAvatar(ctx context.Context, accountID string, r io.Reader, filename, contentType string) (string, error) {
	a, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", accountID, id+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	a.AvatarURL = url
	if err := s.Repo.Update(ctx, a); err != nil {
		return "", err
	}
	s.mirrorUpsert(ctx, a)
	return url, nil
}

// SearchAccounts queries the identity mirror.
func (s *Service) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Mirror == nil {
		return []map[string]any{}, nil
	}
	return s.Mirror.Search(ctx, q, size)
}

func (s *Service) companyName() string {
	if s.Cfg != nil {
		return s.Cfg.CompanyName
	}
	return ""
}

func (s *Service) supportURL() string {
	if s.Cfg != nil {
		return s.Cfg.SupportURL
	}
	return ""
}
