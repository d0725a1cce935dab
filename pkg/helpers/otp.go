package helpers

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// otpMod is the number of distinct 6-digit codes.
const otpMod = 1000000

// otpMax is the largest multiple of otpMod that fits in a uint32; values at
// or above it are rejected so the modulo stays uniform.
const otpMax = 4294000000

// GenOTPCode generates a random 6-digit reset code as a zero-padded string.
// The distribution over 000000-999999 is uniform.
func GenOTPCode() (string, error) {
	b := make([]byte, 4)
	for {
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		n := binary.BigEndian.Uint32(b)
		if n < otpMax {
			return fmt.Sprintf("%06d", n%otpMod), nil
		}
	}
}
