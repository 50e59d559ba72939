package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ErrRandomSource is returned when the secure random source cannot be read.
var ErrRandomSource = errors.New("otp: secure random source unavailable")

const (
	minSecretSize = 16
	maxSecretSize = 20 // exclusive
)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// Generate creates a secret and provisioning URI for an account name.
	Generate(accountName string) (secret string, uri string, err error)
	// GenerateSecret creates a secret and provisioning URI for an explicit issuer and name.
	GenerateSecret(issuer, name string) (secret string, uri string, err error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	period uint
	skew   uint
	digits otp.Digits
	rand   io.Reader
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period. A skew of 0 accepts only the current time step.
func NewTOTP(issuer string, period, skew uint, digits otp.Digits) *TOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if period == 0 {
		period = 30
	}

	return &TOTP{
		issuer: issuer,
		period: period,
		skew:   skew,
		digits: digits,
		rand:   rand.Reader,
	}
}

// WithRandom replaces the random source. Intended for tests.
func (o *TOTP) WithRandom(r io.Reader) *TOTP {
	o.rand = r
	return o
}

// Generate creates a secret and provisioning URI for an account name using the configured issuer.
func (o *TOTP) Generate(accountName string) (secret string, uri string, err error) {
	return o.GenerateSecret(o.issuer, accountName)
}

// GenerateSecret creates a random secret of 16 to 19 bytes and its otpauth:// URI.
func (o *TOTP) GenerateSecret(issuer, name string) (secret string, uri string, err error) {
	n, err := rand.Int(o.rand, big.NewInt(maxSecretSize-minSecretSize))
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	size := minSecretSize + uint(n.Int64())
	buf := make([]byte, size)
	if _, err := io.ReadFull(o.rand, buf); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: name,
		Period:      o.period,
		SecretSize:  size,
		Secret:      buf,
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// Validate checks whether a code is valid at the given time. The code must be
// exactly the configured number of digits; surrounding whitespace is not
// ignored.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	if len(code) != o.digits.Length() {
		return false
	}

	rv, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}

// GenerateCode creates a TOTP code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    o.period,
		Skew:      o.skew,
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}
