package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hammad55553/account-service/pkg/mailer"
)

func TestRequestResetStoresCodeAndNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier, &fakeMirror{})
	view := signupDemo(t, svc, "demo@example.com")

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))

	otp, ok := repo.pendingOTP(view.ID)
	require.True(t, ok)
	assert.Len(t, otp, 6)

	jobs := notifier.sent()
	require.Len(t, jobs, 2) // welcome + reset
	reset := jobs[1]
	assert.Equal(t, mailer.TemplateResetOTP, reset.Template)
	assert.Equal(t, otp, reset.Data["Code"])
}

func TestRequestResetUnknownEmailIsQuiet(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeRepo(), notifier, &fakeMirror{})

	err := svc.RequestReset(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, notifier.sent())
}

func TestRequestResetRegeneratesCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{}, &fakeMirror{})
	view := signupDemo(t, svc, "demo@example.com")

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))
	first, _ := repo.pendingOTP(view.ID)

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))
	second, _ := repo.pendingOTP(view.ID)

	// Last write wins; a fresh code replaces the pending one.
	assert.NotEqual(t, first, second)

	// The overwritten code no longer matches.
	err := svc.ConfirmReset(context.Background(), first, "NewPass123")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)
}

func TestConfirmResetRotatesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{}, &fakeMirror{})
	view := signupDemo(t, svc, "demo@example.com")

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))
	otp, _ := repo.pendingOTP(view.ID)

	require.NoError(t, svc.ConfirmReset(context.Background(), otp, "NewPass123"))

	// New password works, old one does not.
	_, _, err := svc.Login(context.Background(), "demo@example.com", "NewPass123")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "demo@example.com", "OldPass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// The pair was cleared.
	_, pending := repo.pendingOTP(view.ID)
	assert.False(t, pending)
}

func TestConfirmResetSingleUse(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{}, &fakeMirror{})
	view := signupDemo(t, svc, "demo@example.com")

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))
	otp, _ := repo.pendingOTP(view.ID)

	require.NoError(t, svc.ConfirmReset(context.Background(), otp, "NewPass123"))
	err := svc.ConfirmReset(context.Background(), otp, "Another123")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)
}

func TestConfirmResetConsumesSingleAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{}, &fakeMirror{})
	a := signupDemo(t, svc, "a@example.com")
	b := signupDemo(t, svc, "b@example.com")

	// Two accounts coincidentally holding the same pending code: one confirm
	// consumes exactly one of them.
	exp := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.SetResetOTP(context.Background(), a.ID, "123456", exp))
	require.NoError(t, repo.SetResetOTP(context.Background(), b.ID, "123456", exp))

	require.NoError(t, svc.ConfirmReset(context.Background(), "123456", "NewPass123"))

	_, aPending := repo.pendingOTP(a.ID)
	_, bPending := repo.pendingOTP(b.ID)
	assert.NotEqual(t, aPending, bPending)

	// The untouched account still confirms with its own code.
	require.NoError(t, svc.ConfirmReset(context.Background(), "123456", "Other1234"))
}

func TestConfirmResetExpiredCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{}, &fakeMirror{})
	view := signupDemo(t, svc, "demo@example.com")

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))
	otp, _ := repo.pendingOTP(view.ID)
	repo.expireOTP(view.ID)

	err := svc.ConfirmReset(context.Background(), otp, "NewPass123")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)

	// The old password still works after a failed confirm.
	_, _, err = svc.Login(context.Background(), "demo@example.com", "OldPass123")
	assert.NoError(t, err)
}

func TestConfirmResetWrongCode(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeNotifier{}, &fakeMirror{})
	signupDemo(t, svc, "demo@example.com")

	err := svc.ConfirmReset(context.Background(), "000000", "NewPass123")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredOTP)
}

func TestConfirmResetSendsChangeNotice(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier, &fakeMirror{})
	view := signupDemo(t, svc, "demo@example.com")

	require.NoError(t, svc.RequestReset(context.Background(), "demo@example.com"))
	otp, _ := repo.pendingOTP(view.ID)
	require.NoError(t, svc.ConfirmReset(context.Background(), otp, "NewPass123"))

	jobs := notifier.sent()
	require.Len(t, jobs, 3)
	assert.Equal(t, mailer.TemplatePasswordChanged, jobs[2].Template)
	assert.Equal(t, "demo@example.com", jobs[2].To)
}
