package inbound

import (
	"github.com/shandysiswandi/twofa/internal/pkg/router"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"github.com/shandysiswandi/twofa/internal/twofactor/usecase"
)

// HTTPEndpoint exposes the two-factor verification handlers.
type HTTPEndpoint struct {
	uc uc
}

// Status reports the 2FA configuration of the current admin.
// @Summary 2FA status
// @Description Returns enabled methods and the factors a default verification requires.
// @Tags TwoFactor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=StatusResponse} "2FA status"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/2fa/status [get]
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	resp, err := h.uc.Status(r.Context())
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		Status:                           resp.Status,
		RequiredTwoFactorAuthentications: resp.RequiredFactors,
		HasEmail:                         resp.HasEmail,
		HasTOTPSecret:                    resp.HasTOTPSecret,
	}, nil
}

// Verify checks the submitted 2FA codes.
// @Summary Verify 2FA codes
// @Description Verifies the email OTP and TOTP codes the admin must pass. Omitting emailOtp/totp asks for both.
// @Description With autoSendEmailOtpCode a missing email OTP code triggers sending one.
// @Tags TwoFactor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verification passed"
// @Failure 400 {object} router.errorResponse "Missing or invalid code, data carries requiredTwoFactorAuthentications"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Failed to send email OTP code"
// @Router /api/v1/2fa/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeOptionalBody(&req); err != nil {
		return nil, err
	}

	in := usecase.VerifyInput{
		Codes: entity.SubmittedCodes{
			EmailOTPCode: req.EmailOTPCode,
			TOTPCode:     req.TOTPCode,
		},
		AutoSendEmailOTP: req.AutoSendEmailOTPCode,
	}
	if req.EmailOTP != nil || req.TOTP != nil {
		in.Want = &entity.RequiredFactors{
			EmailOTP: req.EmailOTP == nil || *req.EmailOTP,
			TOTP:     req.TOTP == nil || *req.TOTP,
		}
	}

	if err := h.uc.Verify(r.Context(), in); err != nil {
		return nil, err
	}

	return VerifyResponse{}, nil
}

// SendEmailOTP issues and emails a new email OTP code.
// @Summary Send email OTP code
// @Tags TwoFactor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=SendEmailOTPResponse} "Code issued"
// @Failure 400 {object} router.errorResponse "No email bound"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 429 {object} router.errorResponse "A code was sent recently"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/2fa/email-otp/send [post]
func (h *HTTPEndpoint) SendEmailOTP(r *router.Request) (any, error) {
	resp, err := h.uc.SendEmailOTP(r.Context(), usecase.SendEmailOTPInput{})
	if err != nil {
		return nil, err
	}

	return SendEmailOTPResponse{Sent: resp.Sent, ExpiresAt: resp.ExpiresAt}, nil
}

// GenerateTOTPSecret creates a TOTP secret for enrollment.
// @Summary Generate TOTP secret
// @Description Returns a new secret and otpauth URL. Nothing is stored until settings are updated.
// @Tags TwoFactor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateTOTPSecretRequest false "Optional account label"
// @Success 200 {object} router.successResponse{data=GenerateTOTPSecretResponse} "TOTP secret"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/2fa/totp/secret [post]
func (h *HTTPEndpoint) GenerateTOTPSecret(r *router.Request) (any, error) {
	var req GenerateTOTPSecretRequest
	if err := r.DecodeOptionalBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.GenerateTOTPSecret(r.Context(), usecase.GenerateTOTPSecretInput{Name: req.Name})
	if err != nil {
		return nil, err
	}

	return GenerateTOTPSecretResponse{Secret: resp.Secret, URL: resp.URL}, nil
}

// UpdateSettings switches 2FA methods on or off.
// @Summary Update 2FA settings
// @Description Requires codes for the currently configured factors. Enabling TOTP needs totpSecret and newTotpCode.
// @Tags TwoFactor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "Settings payload"
// @Success 200 {object} router.successResponse{data=UpdateSettingsResponse} "Settings updated"
// @Failure 400 {object} router.errorResponse "Missing or invalid code"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/2fa/settings [put]
func (h *HTTPEndpoint) UpdateSettings(r *router.Request) (any, error) {
	var req UpdateSettingsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.UpdateSettings(r.Context(), usecase.UpdateSettingsInput{
		Codes: entity.SubmittedCodes{
			EmailOTPCode: req.EmailOTPCode,
			TOTPCode:     req.TOTPCode,
		},
		EmailOTP:    req.EmailOTP,
		TOTP:        req.TOTP,
		TOTPSecret:  req.TOTPSecret,
		NewTOTPCode: req.NewTOTPCode,
	}); err != nil {
		return nil, err
	}

	return UpdateSettingsResponse{}, nil
}
