package otp

import (
	"encoding/base32"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestTOTP_GenerateSecret(t *testing.T) {
	o := NewTOTP("Admin Console", 30, 0, otp.DigitsSix)

	for range 20 {
		secret, uri, err := o.GenerateSecret("Admin Console", "root")
		require.NoError(t, err)

		raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(raw), 16)
		assert.Less(t, len(raw), 20)

		u, err := url.Parse(uri)
		require.NoError(t, err)
		assert.Equal(t, "otpauth", u.Scheme)
		assert.Equal(t, "totp", u.Host)
		assert.Equal(t, secret, u.Query().Get("secret"))
		assert.Equal(t, "Admin Console", u.Query().Get("issuer"))
		assert.True(t, strings.HasSuffix(u.Path, "root"))
	}
}

func TestTOTP_GenerateSecret_RandomSourceFailure(t *testing.T) {
	o := NewTOTP("Admin Console", 30, 0, otp.DigitsSix).WithRandom(failingReader{})

	_, _, err := o.GenerateSecret("Admin Console", "root")
	assert.ErrorIs(t, err, ErrRandomSource)
}

func TestTOTP_Generate_UsesConfiguredIssuer(t *testing.T) {
	o := NewTOTP("Console", 0, 0, 0)

	_, uri, err := o.Generate("ops")
	require.NoError(t, err)

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "Console", u.Query().Get("issuer"))
}

func TestTOTP_ValidateCurrentStepOnly(t *testing.T) {
	o := NewTOTP("Console", 30, 0, otp.DigitsSix)
	secret, _, err := o.GenerateSecret("Console", "ops")
	require.NoError(t, err)

	now := time.Date(2026, 10, 17, 9, 0, 10, 0, time.UTC)
	code, err := o.GenerateCode(secret, now)
	require.NoError(t, err)

	assert.True(t, o.Validate(code, secret, now))
	assert.True(t, o.Validate(code, secret, now.Add(15*time.Second)))
	assert.False(t, o.Validate(code, secret, now.Add(30*time.Second)))
	assert.False(t, o.Validate(code, secret, now.Add(-30*time.Second)))
}

func TestTOTP_ValidateRejectsPaddedCode(t *testing.T) {
	o := NewTOTP("Console", 30, 0, otp.DigitsSix)
	secret, _, err := o.GenerateSecret("Console", "ops")
	require.NoError(t, err)

	now := time.Date(2026, 10, 17, 9, 0, 10, 0, time.UTC)
	code, err := o.GenerateCode(secret, now)
	require.NoError(t, err)

	for _, submitted := range []string{" " + code, code + " ", code + "\n", "\t" + code} {
		assert.False(t, o.Validate(submitted, secret, now), "%q", submitted)
	}
	assert.False(t, o.Validate("      ", secret, now))
	assert.True(t, o.Validate(code, secret, now))
}

func TestTOTP_ValidateWithSkew(t *testing.T) {
	o := NewTOTP("Console", 30, 1, otp.DigitsSix)
	secret, _, err := o.GenerateSecret("Console", "ops")
	require.NoError(t, err)

	now := time.Date(2026, 10, 17, 9, 0, 10, 0, time.UTC)
	code, err := o.GenerateCode(secret, now)
	require.NoError(t, err)

	assert.True(t, o.Validate(code, secret, now.Add(30*time.Second)))
	assert.False(t, o.Validate(code, secret, now.Add(90*time.Second)))
}

func TestRandomCode_Generate(t *testing.T) {
	rc := NewRandomCode()

	seen := make(map[string]struct{})
	for range 50 {
		code, err := rc.Generate(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(urlAlphabet, c), "unexpected char %q", c)
		}
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)

	empty, err := rc.Generate(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRandomCode_RandomSourceFailure(t *testing.T) {
	_, err := NewRandomCodeFrom(failingReader{}).Generate(6)
	assert.ErrorIs(t, err, ErrRandomSource)
}
