package entity

import "errors"

var (
	ErrUnauthenticated = errors.New("twofactor: no authenticated admin")
	ErrMissingCode     = errors.New("twofactor: required code not submitted")
	ErrInvalidCode     = errors.New("twofactor: code does not match")
	ErrNoEmailBound    = errors.New("twofactor: no email bound to account")
	ErrCooldownActive  = errors.New("twofactor: email otp code sent too recently")
	ErrDispatchFailed  = errors.New("twofactor: failed to dispatch email otp code")
	ErrCryptoSource    = errors.New("twofactor: secure random source unavailable")
)

// FactorError ties a verification failure to the factor that caused it.
type FactorError struct {
	Factor Factor
	Err    error
}

func (e *FactorError) Error() string {
	return e.Err.Error() + " (" + e.Factor.String() + ")"
}

func (e *FactorError) Unwrap() error {
	return e.Err
}

// VerificationContext is attached to verification failures so a client can
// render every outstanding requirement at once.
type VerificationContext struct {
	RequiredFactors RequiredFactors `json:"requiredTwoFactorAuthentications"`
}
