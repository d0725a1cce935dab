package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Hammad55553/account-service/config"
	"github.com/Hammad55553/account-service/internal/domain/entity"
	"github.com/Hammad55553/account-service/internal/domain/repository"
	"github.com/Hammad55553/account-service/pkg/helpers"
	"github.com/Hammad55553/account-service/pkg/mailer"
)

// fakeRepo is an in-memory AccountRepository with the same matching
// semantics as the Postgres implementation.
type fakeRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*entity.Account{}}
}

func copyAccount(a *entity.Account) *entity.Account {
	cp := *a
	if a.ResetOTP != nil {
		v := *a.ResetOTP
		cp.ResetOTP = &v
	}
	if a.ResetOTPExpiresAt != nil {
		v := *a.ResetOTPExpiresAt
		cp.ResetOTPExpiresAt = &v
	}
	return &cp
}

func (r *fakeRepo) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return repository.ErrDuplicateEmail
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.byID[a.ID] = copyAccount(a)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyAccount(a), nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == email {
			return copyAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRepo) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = a.Name
	stored.Phone = a.Phone
	stored.AvatarURL = a.AvatarURL
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *fakeRepo) SetResetOTP(_ context.Context, id, otp string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ResetOTP = &otp
	a.ResetOTPExpiresAt = &expiresAt
	return nil
}

func (r *fakeRepo) ConsumeResetOTP(_ context.Context, otp, passwordHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.ResetOTP != nil && *a.ResetOTP == otp &&
			a.ResetOTPExpiresAt != nil && a.ResetOTPExpiresAt.After(time.Now()) {
			a.PasswordHash = passwordHash
			a.ResetOTP = nil
			a.ResetOTPExpiresAt = nil
			return a.ID, nil
		}
	}
	return "", repository.ErrNotFound
}

// expireOTP backdates the pending pair for expiry tests.
func (r *fakeRepo) expireOTP(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok && a.ResetOTPExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		a.ResetOTPExpiresAt = &past
	}
}

func (r *fakeRepo) pendingOTP(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.ResetOTP == nil {
		return "", false
	}
	return *a.ResetOTP, true
}

// errRepo injects failures into selected lookups and delegates the rest,
// standing in for a store that has lost its connection.
type errRepo struct {
	*fakeRepo
	getByIDErr    error
	getByEmailErr error
}

func (r *errRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if r.getByIDErr != nil {
		return nil, r.getByIDErr
	}
	return r.fakeRepo.GetByID(ctx, id)
}

func (r *errRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if r.getByEmailErr != nil {
		return nil, r.getByEmailErr
	}
	return r.fakeRepo.GetByEmail(ctx, email)
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (n *fakeNotifier) PublishJSON(_ context.Context, body any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	if job, ok := body.(mailer.EmailJob); ok {
		n.jobs = append(n.jobs, job)
	}
	return nil
}

func (n *fakeNotifier) sent() []mailer.EmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]mailer.EmailJob, len(n.jobs))
	copy(out, n.jobs)
	return out
}

type fakeMirror struct {
	mu      sync.Mutex
	upserts []string
	err     error
}

func (m *fakeMirror) Upsert(_ context.Context, a *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, a.ID)
	return nil
}

func (m *fakeMirror) Search(_ context.Context, _ string, _ int) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

func newTestService(repo repository.AccountRepository, notifier *fakeNotifier, mirror *fakeMirror) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	jwt := helpers.NewJWTManager("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	cfg := &config.Config{
		ResetOTPTTL:     10 * time.Minute,
		CompanyName:     "Luggage Tracker",
		MailSendEnabled: true,
	}
	return NewService(repo, jwt, nil, logger, notifier, mirror, nil, "", cfg)
}
