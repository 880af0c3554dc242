package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewVerificationCode returns a 6-digit numeric code drawn from a
// cryptographically secure source.  Leading zeros are preserved, so
// "012345" is a valid code.
func NewVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
