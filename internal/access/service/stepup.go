package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/assetdocs/accessd/internal/access/domain"
	"github.com/assetdocs/accessd/internal/access/notify"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/idx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

var (
	// ErrInvalidCode covers every verification failure: wrong code, expired,
	// already consumed, never issued. One error so the API cannot leak which
	// sub-reason applied.
	ErrInvalidCode = errors.New("invalid code")
)

const (
	// DefaultOTPValidity is the challenge lifetime. Comfortably above the 60s
	// resend cooldown enforced at the transport layer.
	DefaultOTPValidity = 5 * time.Minute

	// MaxOTPAttempts is the cap on failed verifications per challenge.
	MaxOTPAttempts = 5
)

// StepUpService issues and verifies the phone one-time codes used to
// re-confirm identity before sensitive actions.
type StepUpService struct {
	Store    store.Store
	SMS      notify.SMSSender
	Validity time.Duration // 0 means DefaultOTPValidity
}

// Issue generates a fresh 6-digit code for the phone, invalidates any prior
// unconsumed code, stores the phone on the caller's profile if not already
// there, and sends the code by SMS. Resend cooldown is the caller's concern;
// Issue always replaces.
func (s *StepUpService) Issue(ctx context.Context, userID string, rawPhone string) error {
	log := slogx.FromContext(ctx)

	// 1. Normalize to E.164 or reject.
	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	// 2. Generate the code and fingerprint it; the raw code only travels in
	// the SMS.
	code, err := cryptox.GenerateNumericCode(domain.OTPCodeLength)
	if err != nil {
		log.Error("failed to generate step-up code", slog.Any("error", err))
		return err
	}

	validity := s.Validity
	if validity <= 0 {
		validity = DefaultOTPValidity
	}
	now := time.Now().UTC()
	challenge := domain.OTPChallenge{
		ID:        idx.New().String(),
		Phone:     phone,
		CodeHash:  cryptox.FingerprintToken(code),
		IssuedAt:  now,
		ExpiresAt: now.Add(validity),
	}

	// 3. Replace any outstanding challenge in the same transaction, so two
	// valid codes can never coexist for one phone.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OTPChallenges().DeleteUnconsumedForPhone(ctx, phone); err != nil {
			return err
		}
		if err := tx.OTPChallenges().CreateChallenge(ctx, challenge); err != nil {
			return err
		}

		// Persist the phone unverified so a later verified result can update
		// the same record.
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Phone != phone {
			if err := tx.Users().SetPhone(ctx, userID, phone); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to store step-up challenge", slog.Any("error", err))
		return err
	}

	// 4. Dispatch out-of-band. A delivery failure is surfaced; the stored
	// challenge stays valid in case the SMS arrives late.
	message := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(validity.Minutes()))
	if err := s.SMS.Send(ctx, phone, message); err != nil {
		log.Error("failed to send step-up sms", slog.Any("error", err))
		return fmt.Errorf("send verification code: %w", err)
	}

	log.Info("step-up challenge issued",
		slog.String("challenge_id", challenge.ID),
		slog.String("user_id", userID),
	)
	return nil
}

// Verify checks a submitted code against the active challenge for the phone.
// On success the code is consumed (single use) and the identity carrying the
// phone is marked phone-verified. Every failure is ErrInvalidCode.
func (s *StepUpService) Verify(ctx context.Context, rawPhone string, code string) error {
	log := slogx.FromContext(ctx)

	phone, err := domain.NormalizePhone(rawPhone)
	if err != nil {
		return ErrInvalidCode
	}

	// Malformed codes fail fast without touching storage or burning attempts.
	if !domain.ValidOTPFormat(code) {
		return ErrInvalidCode
	}

	challenge, err := s.Store.OTPChallenges().GetActiveChallengeByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to fetch step-up challenge", slog.Any("error", err))
		}
		return ErrInvalidCode
	}

	if challenge.Attempts >= MaxOTPAttempts {
		log.Warn("step-up challenge attempt limit reached",
			slog.String("challenge_id", challenge.ID),
		)
		return ErrInvalidCode
	}

	if cryptox.FingerprintToken(code) != challenge.CodeHash {
		if _, err := s.Store.OTPChallenges().IncrementAttempts(ctx, challenge.ID); err != nil {
			log.Error("failed to record failed step-up attempt", slog.Any("error", err))
		}
		return ErrInvalidCode
	}

	// Consume first. The NULL guard in storage means a replayed code loses
	// here even when two verifications race.
	now := time.Now().UTC()
	if err := s.Store.OTPChallenges().MarkConsumed(ctx, challenge.ID, now); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to consume step-up challenge", slog.Any("error", err))
		}
		return ErrInvalidCode
	}

	if err := s.Store.Users().MarkPhoneVerified(ctx, phone, now); err != nil {
		// The verification itself stands; the profile flag catches up on the
		// next successful challenge.
		log.Error("failed to mark phone verified",
			slog.String("challenge_id", challenge.ID),
			slog.Any("error", err),
		)
	}

	log.Info("step-up verification succeeded",
		slog.String("challenge_id", challenge.ID),
	)
	return nil
}
