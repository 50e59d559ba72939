package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// urlAlphabet is the URL-safe character set used for emailed codes.
const urlAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// CodeGenerator produces short random codes for out-of-band delivery.
type CodeGenerator interface {
	// Generate returns a code of the given length or an error if the random
	// source fails.
	Generate(length int) (string, error)
}

// RandomCode generates codes where each character is picked uniformly from a
// 64-symbol URL-safe alphabet.
type RandomCode struct {
	rand io.Reader
}

// NewRandomCode returns a RandomCode backed by crypto/rand.
func NewRandomCode() *RandomCode {
	return &RandomCode{rand: rand.Reader}
}

// NewRandomCodeFrom returns a RandomCode reading from r.
func NewRandomCodeFrom(r io.Reader) *RandomCode {
	return &RandomCode{rand: r}
}

// Generate returns a code of length characters.
func (rc *RandomCode) Generate(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}

	max := big.NewInt(int64(len(urlAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rc.rand, max)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrRandomSource, err)
		}
		out[i] = urlAlphabet[n.Int64()]
	}

	return string(out), nil
}
