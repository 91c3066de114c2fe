package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/idx"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

// codeFromSMS pulls the 6-digit code out of the message a test captured.
func codeFromSMS(t *testing.T, message string) string {
	t.Helper()
	m := codePattern.FindStringSubmatch(message)
	require.NotNil(t, m, "sms did not contain a 6-digit code: %q", message)
	return m[1]
}

func TestStepUpIssueRejectsInvalidPhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	sms := &fakeSMS{}
	svc := &StepUpService{Store: st, SMS: sms}

	ctx := context.Background()

	for _, raw := range []string{"", "12345", "phone number", "+44 20 7946 0958"} {
		require.ErrorIs(t, svc.Issue(ctx, user.ID, raw), domain.ErrInvalidPhone)
	}
	require.Zero(t, sms.count())
}

func TestStepUpIssueStoresUnverifiedPhone(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	sms := &fakeSMS{}
	svc := &StepUpService{Store: st, SMS: sms}

	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, user.ID, "(555) 123-4567"))
	require.Equal(t, 1, sms.count())
	require.Equal(t, "+15551234567", sms.last().Phone)

	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "+15551234567", got.Phone)
	require.False(t, got.PhoneVerified)
	require.Nil(t, got.PhoneVerifiedAt)
}

func TestStepUpReissueInvalidatesPriorCode(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	sms := &fakeSMS{}
	svc := &StepUpService{Store: st, SMS: sms}

	ctx := context.Background()
	phone := "5551234567"

	require.NoError(t, svc.Issue(ctx, user.ID, phone))
	firstCode := codeFromSMS(t, sms.last().Message)

	require.NoError(t, svc.Issue(ctx, user.ID, phone))
	secondCode := codeFromSMS(t, sms.last().Message)

	if firstCode == secondCode {
		t.Skip("generator produced the same code twice, nothing to distinguish")
	}

	// The first code died the moment the second was issued.
	require.ErrorIs(t, svc.Verify(ctx, phone, firstCode), ErrInvalidCode)
	require.NoError(t, svc.Verify(ctx, phone, secondCode))
}

func TestStepUpVerifyConsumesCodeExactlyOnce(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	sms := &fakeSMS{}
	svc := &StepUpService{Store: st, SMS: sms}

	ctx := context.Background()
	phone := "5559876543"

	require.NoError(t, svc.Issue(ctx, user.ID, phone))
	code := codeFromSMS(t, sms.last().Message)

	require.NoError(t, svc.Verify(ctx, phone, code))

	// Replay with the very same, "correct looking" code fails.
	require.ErrorIs(t, svc.Verify(ctx, phone, code), ErrInvalidCode)

	// Success flipped the profile verification state, timestamp and flag
	// together.
	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.PhoneVerified)
	require.NotNil(t, got.PhoneVerifiedAt)
}

func TestStepUpVerifyExpiredCodeFails(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	createTestUser(t, st, "user@example.com")
	svc := &StepUpService{Store: st, SMS: &fakeSMS{}}

	ctx := context.Background()
	phone := "+15550001111"
	code := "123456"

	// Plant an already-expired challenge directly.
	now := time.Now().UTC()
	require.NoError(t, st.OTPChallenges().CreateChallenge(ctx, domain.OTPChallenge{
		ID:        idx.New().String(),
		Phone:     phone,
		CodeHash:  cryptox.FingerprintToken(code),
		IssuedAt:  now.Add(-10 * time.Minute),
		ExpiresAt: now.Add(-5 * time.Minute),
	}))

	require.ErrorIs(t, svc.Verify(ctx, phone, code), ErrInvalidCode)
}

func TestStepUpVerifyFormatFailsFastWithoutBurningAttempts(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	sms := &fakeSMS{}
	svc := &StepUpService{Store: st, SMS: sms}

	ctx := context.Background()
	phone := "5553334444"

	require.NoError(t, svc.Issue(ctx, user.ID, phone))
	code := codeFromSMS(t, sms.last().Message)

	// Malformed submissions never reach the challenge.
	for _, bad := range []string{"", "12345", "1234567", "12345a", "abcdef"} {
		require.ErrorIs(t, svc.Verify(ctx, phone, bad), ErrInvalidCode)
	}

	ch, err := st.OTPChallenges().GetActiveChallengeByPhone(ctx, "+15553334444")
	require.NoError(t, err)
	require.Zero(t, ch.Attempts)

	// The real code still works afterwards.
	require.NoError(t, svc.Verify(ctx, phone, code))
}

func TestStepUpVerifyAttemptLimit(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := createTestUser(t, st, "user@example.com")
	sms := &fakeSMS{}
	svc := &StepUpService{Store: st, SMS: sms}

	ctx := context.Background()
	phone := "5557778888"

	require.NoError(t, svc.Issue(ctx, user.ID, phone))
	code := codeFromSMS(t, sms.last().Message)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < MaxOTPAttempts; i++ {
		require.ErrorIs(t, svc.Verify(ctx, phone, wrong), ErrInvalidCode)
	}

	// The correct code is dead once the attempt limit is reached.
	require.ErrorIs(t, svc.Verify(ctx, phone, code), ErrInvalidCode)
}

func TestStepUpVerifyNoChallengeIssued(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	createTestUser(t, st, "user@example.com")
	svc := &StepUpService{Store: st, SMS: &fakeSMS{}}

	require.ErrorIs(t, svc.Verify(context.Background(), "5550000000", "123456"), ErrInvalidCode)
}
