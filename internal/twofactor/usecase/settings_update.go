package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

type UpdateSettingsInput struct {
	// Codes satisfy the factors that are configured before the change.
	Codes    entity.SubmittedCodes
	EmailOTP *bool
	TOTP     *bool
	// TOTPSecret is a secret from GenerateTOTPSecret, required when enabling
	// TOTP without a registered secret.
	TOTPSecret string `validate:"omitempty,totpsecret,max=64"`
	// NewTOTPCode proves the authenticator app holds TOTPSecret.
	NewTOTPCode string `validate:"required_with=TOTPSecret,omitempty,numeric,len=6"`
}

// UpdateSettings switches 2FA methods on or off. The admin must first pass the
// factors that are currently configured.
func (s *Usecase) UpdateSettings(ctx context.Context, in UpdateSettingsInput) error {
	ctx, span := s.startSpan(ctx, "UpdateSettings")
	defer span.End()

	in.TOTPSecret = strings.ToUpper(strings.TrimSpace(in.TOTPSecret))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if in.EmailOTP == nil && in.TOTP == nil {
		return goerror.NewBusiness("Nothing to update", goerror.CodeBadRequest)
	}

	admin, err := s.resolveAdmin(ctx, nil)
	if err != nil {
		return err
	}

	if err := s.verifyFactors(ctx, admin, in.Codes, admin.RequiredFactors(true, true), true); err != nil {
		return err
	}

	settings := entity.AdminSettings{AdminID: admin.ID}

	if in.EmailOTP != nil {
		if *in.EmailOTP && !admin.HasEmail() {
			return errNoEmailBound()
		}
		settings.EmailOTP = in.EmailOTP
	}

	if in.TOTP != nil {
		secret, err := s.totpSecretForUpdate(ctx, admin, *in.TOTP, in.TOTPSecret, in.NewTOTPCode)
		if err != nil {
			return err
		}
		settings.TOTP = in.TOTP
		settings.TOTPSecret = secret
	}

	if err := s.repoDB.UpdateAdminSettings(ctx, settings); err != nil {
		slog.ErrorContext(ctx, "failed to repo update admin 2fa settings", "admin_id", admin.ID, "error", err)
		return goerror.NewServer(err)
	}

	if in.EmailOTP != nil && !*in.EmailOTP {
		if err := s.repoCache.DelEmailOTP(ctx, admin.ID); err != nil {
			slog.WarnContext(ctx, "failed to repo delete pending email otp code", "admin_id", admin.ID, "error", err)
		}
	}

	return nil
}

// totpSecretForUpdate returns the secret value to persist, or nil to keep the
// stored one.
func (s *Usecase) totpSecretForUpdate(ctx context.Context, admin *entity.Admin, enable bool, secret, code string) (*string, error) {
	if !enable {
		empty := ""
		return &empty, nil
	}

	if secret == "" {
		if !admin.HasTOTPSecret() {
			return nil, goerror.NewBusiness("TOTP secret is required to enable TOTP", goerror.CodeBadRequest)
		}
		return nil, nil
	}

	if !s.totp.Validate(code, secret, s.clock.Now()) {
		slog.WarnContext(ctx, "totp code does not match new secret", "admin_id", admin.ID)
		return nil, goerror.NewBusiness("Invalid TOTP code for the new secret", goerror.CodeBadRequest,
			goerror.WithCause(&entity.FactorError{Factor: entity.FactorTOTP, Err: entity.ErrInvalidCode}))
	}

	return &secret, nil
}
