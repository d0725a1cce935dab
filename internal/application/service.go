package application

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Hammad55553/account-service/config"
	"github.com/Hammad55553/account-service/internal/domain/entity"
	repo "github.com/Hammad55553/account-service/internal/domain/repository"
	"github.com/Hammad55553/account-service/pkg/helpers"
	"github.com/Hammad55553/account-service/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailRegistered    = errors.New("email already registered")
	// ErrInvalidOrExpiredOTP covers a wrong, consumed, or expired reset code
	// without saying which.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired code")
)

// Notifier enqueues outbound email jobs. Delivery is fire-and-forget; the
// service logs enqueue failures and moves on.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// IdentityMirror replicates public account data into a secondary store.
// Errors are logged, never fatal.
type IdentityMirror interface {
	Upsert(ctx context.Context, a *entity.Account) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type Service struct {
	Repo      repo.AccountRepository
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Logger    *logrus.Logger
	Notifier  Notifier
	Mirror    IdentityMirror
	GCS       *storage.Client
	GCSBucket string
	Cfg       *config.Config
}

func NewService(repo repo.AccountRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, notifier Notifier, mirror IdentityMirror, gcs *storage.Client, gcsBucket string, cfg *config.Config) *Service {
	return &Service{
		Repo:      repo,
		JWT:       jwt,
		Redis:     rdb,
		Logger:    logger,
		Notifier:  notifier,
		Mirror:    mirror,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Cfg:       cfg,
	}
}

func sessionKey(accountID string) string {
	return "account:session:" + accountID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// notify enqueues a templated email. Failures never fail the caller.
func (s *Service) notify(ctx context.Context, to, template string, data map[string]any) {
	if s.Notifier == nil || (s.Cfg != nil && !s.Cfg.MailSendEnabled) {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := s.Notifier.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}

// mirrorUpsert replicates the account to the secondary store. Failures never
// fail the caller.
func (s *Service) mirrorUpsert(ctx context.Context, a *entity.Account) {
	if s.Mirror == nil {
		return
	}
	if err := s.Mirror.Upsert(ctx, a); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", a.ID).Warn("identity mirror upsert failed")
	}
}
