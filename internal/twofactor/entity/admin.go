package entity

// TwoFactorStatus records which 2FA methods an admin has switched on.
type TwoFactorStatus struct {
	EmailOTP bool `json:"emailOtp"`
	TOTP     bool `json:"totp"`
}

// Admin is the account undergoing two-factor verification.
type Admin struct {
	ID         int64
	Account    string
	Email      string
	TOTPSecret string // base32, empty when not enrolled
	Status     TwoFactorStatus
}

// HasEmail reports whether an email address is bound to the account.
func (a Admin) HasEmail() bool {
	return a.Email != ""
}

// HasTOTPSecret reports whether a TOTP secret is registered.
func (a Admin) HasTOTPSecret() bool {
	return a.TOTPSecret != ""
}

// RequiredFactors computes the factors a verification must satisfy.
//
// A factor is only required when the caller wants it, the method is enabled
// and the admin has the material it needs (an email or a secret).
func (a Admin) RequiredFactors(wantEmailOTP, wantTOTP bool) RequiredFactors {
	return RequiredFactors{
		EmailOTP: wantEmailOTP && a.Status.EmailOTP && a.HasEmail(),
		TOTP:     wantTOTP && a.Status.TOTP && a.HasTOTPSecret(),
	}
}

// AdminSettings is a partial update of an admin's 2FA configuration.
// Nil pointers leave the current value untouched.
type AdminSettings struct {
	AdminID    int64
	EmailOTP   *bool
	TOTP       *bool
	TOTPSecret *string // empty string clears the stored secret
}
