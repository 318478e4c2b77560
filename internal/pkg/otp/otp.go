package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Validity is how long a generated code stays valid.
const Validity = 10 * time.Minute

const (
	codeMin  = 100000
	codeSpan = 900000
)

// Generate returns a uniformly distributed 6-digit code in [100000, 999999]
// and its absolute expiry time. Codes below 100000 are excluded, so the
// valid space is exactly 900,000 values.
func Generate() (code string, expiresAt time.Time, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), time.Now().Add(Validity), nil
}

// Valid reports whether the input is exactly six ASCII digits.
// Inputs are checked here before any stored state is consulted.
func Valid(code string) bool {
	if len(code) != 6 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
