package inbound

import (
	"time"

	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

type StatusResponse struct {
	Status                           entity.TwoFactorStatus `json:"status"`
	RequiredTwoFactorAuthentications entity.RequiredFactors `json:"requiredTwoFactorAuthentications"`
	HasEmail                         bool                   `json:"hasEmail"`
	HasTOTPSecret                    bool                   `json:"hasTotpSecret"`
}

type VerifyRequest struct {
	EmailOTPCode         string `json:"emailOtpCode"`
	TOTPCode             string `json:"totpCode"`
	EmailOTP             *bool  `json:"emailOtp"`
	TOTP                 *bool  `json:"totp"`
	AutoSendEmailOTPCode bool   `json:"autoSendEmailOtpCode"`
}

type VerifyResponse struct{}

func (VerifyResponse) Message() string {
	return "Two-factor authentication passed"
}

type SendEmailOTPResponse struct {
	Sent      bool      `json:"sent"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (r SendEmailOTPResponse) Message() string {
	if !r.Sent {
		return "Email OTP code was issued but the email could not be delivered"
	}
	return "Email OTP code has been sent"
}

type GenerateTOTPSecretRequest struct {
	Name string `json:"name"`
}

type GenerateTOTPSecretResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

type UpdateSettingsRequest struct {
	EmailOTPCode string `json:"emailOtpCode"`
	TOTPCode     string `json:"totpCode"`
	EmailOTP     *bool  `json:"emailOtp"`
	TOTP         *bool  `json:"totp"`
	TOTPSecret   string `json:"totpSecret"`
	NewTOTPCode  string `json:"newTotpCode"`
}

type UpdateSettingsResponse struct{}

func (UpdateSettingsResponse) Message() string {
	return "Two-factor authentication settings updated"
}
