package entity

// Factor identifies a single second factor.
type Factor int8

const (
	FactorUnknown  Factor = 0
	FactorEmailOTP Factor = 1
	FactorTOTP     Factor = 2
)

func (f Factor) String() string {
	switch f {
	case FactorEmailOTP:
		return "emailOtp"
	case FactorTOTP:
		return "totp"
	default:
		return "unknown"
	}
}

// RequiredFactors is the set of second factors a verification call demands.
type RequiredFactors struct {
	EmailOTP bool `json:"emailOtp"`
	TOTP     bool `json:"totp"`
}

// AllFactors asks for every factor the admin has configured.
var AllFactors = RequiredFactors{EmailOTP: true, TOTP: true}

// Any reports whether at least one factor is required.
func (rf RequiredFactors) Any() bool {
	return rf.EmailOTP || rf.TOTP
}

// SubmittedCodes are the codes sent with a request. Empty means not submitted.
type SubmittedCodes struct {
	EmailOTPCode string
	TOTPCode     string
}

// TOTPSecretData is the enrollment material handed to an authenticator app.
type TOTPSecretData struct {
	Secret string
	URL    string
}
