package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericCode returns a random code of exactly the given number of
// decimal digits, suitable for SMS one-time codes. Leading zeros are allowed,
// so the result is always `digits` characters long.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", digits)
	}

	code := make([]byte, digits)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random code: %w", err)
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}
