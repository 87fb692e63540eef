// Package keygen produces unique fixed-width numeric record keys.
package keygen

import (
	"fmt"
	"math/rand/v2"

	"github.com/starford/othala/internal/apperr"
)

// MaxAttempts bounds the collision retry loop. The keyspace for n digits is
// 9×10^(n-1), so with realistic collection sizes a draw almost never collides
// and the cap exists only to turn a pathological state into an error instead
// of a spin.
const MaxAttempts = 10000

// maxDigitLength keeps 10^n inside the int64 range.
const maxDigitLength = 18

// Generate draws uniform random integers in [10^(n-1), 10^n-1] until one is
// absent from inUse. Results are intentionally non-deterministic.
func Generate(digitLength int, inUse map[int]struct{}) (int, error) {
	if digitLength < 1 || digitLength > maxDigitLength {
		return 0, fmt.Errorf("keygen: digit length %d out of range [1,%d]", digitLength, maxDigitLength)
	}

	lo := 1
	for i := 1; i < digitLength; i++ {
		lo *= 10
	}
	span := lo*10 - lo // count of n-digit integers

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		key := lo + rand.IntN(span)
		if _, taken := inUse[key]; !taken {
			return key, nil
		}
	}
	return 0, fmt.Errorf("%w: no free %d-digit key after %d attempts", apperr.ErrKeyspaceExhausted, digitLength, MaxAttempts)
}
