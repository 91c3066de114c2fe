package domain

import (
	"errors"
	"strings"
	"time"
)

// OTPCodeLength is the number of digits in a step-up code.
const OTPCodeLength = 6

// OTPChallenge is a short-lived numeric one-time code bound to a phone
// number. At most one unconsumed, unexpired challenge exists per phone;
// issuing a new one replaces the prior.
type OTPChallenge struct {
	ID         string
	Phone      string // E.164
	CodeHash   string // fingerprint of the 6-digit code; never stored raw
	Attempts   int    // failed verification attempts against this challenge
	IssuedAt   time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// Expired reports whether the challenge is past its validity window.
func (c OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Consumed reports whether the challenge's code has already been used.
func (c OTPChallenge) Consumed() bool {
	return c.ConsumedAt != nil
}

// ErrInvalidPhone reports input that cannot be normalized to E.164.
var ErrInvalidPhone = errors.New("phone number is not a valid 10 or 11 digit number")

// NormalizePhone converts user-entered phone input into E.164. Accepts 10
// digit national numbers (assumed +1) and 11 digit numbers with a leading 1,
// with or without the plus and common punctuation.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// punctuation is tolerated, everything else is not
		default:
			return "", ErrInvalidPhone
		}
	}

	s := digits.String()
	switch {
	case len(s) == 10:
		return "+1" + s, nil
	case len(s) == 11 && s[0] == '1':
		return "+" + s, nil
	default:
		return "", ErrInvalidPhone
	}
}

// ValidOTPFormat reports whether code is exactly six ASCII digits. Anything
// else fails fast before touching storage and without consuming attempts.
func ValidOTPFormat(code string) bool {
	if len(code) != OTPCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
