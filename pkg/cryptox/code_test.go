package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	t.Run("generates exact length", func(t *testing.T) {
		for _, digits := range []int{1, 4, 6, 8} {
			code, err := GenerateNumericCode(digits)
			require.NoError(t, err)
			require.Len(t, code, digits)
			for _, c := range code {
				require.True(t, c >= '0' && c <= '9', "expected digit, got %q", c)
			}
		}
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		_, err := GenerateNumericCode(0)
		require.Error(t, err)

		_, err = GenerateNumericCode(-6)
		require.Error(t, err)
	})

	t.Run("codes vary", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 32 {
			code, err := GenerateNumericCode(6)
			require.NoError(t, err)
			seen[code] = struct{}{}
		}
		// 32 draws from a million values colliding down to one is not a thing.
		require.Greater(t, len(seen), 1)
	})
}
