package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pquerna/otp/totp"
)

func TestTwoFactorLifecycle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := &TwoFactorService{
		Store:  st,
		Alerts: &AlertService{Store: st, Mailer: mailer},
		Issuer: "accessd-test",
	}
	user := createTestUser(t, st, "tf@example.com")

	ctx := context.Background()

	// Activation without enrolment is rejected.
	require.ErrorIs(t, svc.Activate(ctx, user.ID, "123456", nil), ErrTwoFactorNotEnrolled)

	enrollment, err := svc.Enroll(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.OTPAuthURL, "otpauth://")

	// Enrolment alone does not activate anything.
	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, got.TwoFactorEnabled)

	// A wrong confirmation code keeps it off.
	require.ErrorIs(t, svc.Activate(ctx, user.ID, "000000", nil), ErrInvalidTOTPCode)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, user.ID, code, nil))

	got, err = st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TwoFactorEnabled)
	require.Equal(t, "Two-factor authentication enabled", mailer.last().Subject)

	// Re-enrolment while active is rejected.
	_, err = svc.Enroll(ctx, user.ID)
	require.ErrorIs(t, err, ErrTwoFactorAlreadyActive)

	// Deactivation requires a current code too.
	require.ErrorIs(t, svc.Deactivate(ctx, user.ID, "000000", nil), ErrInvalidTOTPCode)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, user.ID, code, nil))

	got, err = st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Nil(t, got.TwoFactorEnabled)
	require.Nil(t, got.TwoFactorSecret)
	require.Equal(t, "Two-factor authentication disabled", mailer.last().Subject)
}

func TestTwoFactorAlertsGoThroughPreferences(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := &TwoFactorService{
		Store:  st,
		Alerts: &AlertService{Store: st, Mailer: mailer},
		Issuer: "accessd-test",
	}
	user := createTestUser(t, st, "quiet-tf@example.com")

	ctx := context.Background()
	require.NoError(t, st.Users().UpdateNotificationPrefs(ctx, user.ID, true, false))

	enrollment, err := svc.Enroll(ctx, user.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, user.ID, code, map[string]string{"ip": "192.0.2.1"}))

	// Enabled fine, but the alert was skipped per preferences.
	require.Zero(t, mailer.count())

	got, err := st.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TwoFactorEnabled)
}
