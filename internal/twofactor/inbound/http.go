package inbound

import (
	"context"

	"github.com/shandysiswandi/twofa/internal/pkg/router"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"github.com/shandysiswandi/twofa/internal/twofactor/usecase"
)

type uc interface {
	Status(ctx context.Context) (*usecase.StatusOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) error
	SendEmailOTP(ctx context.Context, in usecase.SendEmailOTPInput) (*usecase.SendEmailOTPOutput, error)
	GenerateTOTPSecret(ctx context.Context, in usecase.GenerateTOTPSecretInput) (*entity.TOTPSecretData, error)
	UpdateSettings(ctx context.Context, in usecase.UpdateSettingsInput) error
}

// RegisterHTTPEndpoint mounts the 2FA routes. Every route needs an authenticated admin.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/2fa/status", end.Status)
	r.POST("/api/v1/2fa/verify", end.Verify)
	r.POST("/api/v1/2fa/email-otp/send", end.SendEmailOTP)
	r.POST("/api/v1/2fa/totp/secret", end.GenerateTOTPSecret)
	r.PUT("/api/v1/2fa/settings", end.UpdateSettings)
}
