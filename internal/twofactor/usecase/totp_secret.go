package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

type GenerateTOTPSecretInput struct {
	// Name is the account label shown by authenticator apps; defaults to the admin account.
	Name string `validate:"omitempty,max=100"`
}

// GenerateTOTPSecret creates enrollment material for an authenticator app.
// Nothing is persisted; the secret is stored once UpdateSettings confirms it.
func (s *Usecase) GenerateTOTPSecret(ctx context.Context, in GenerateTOTPSecretInput) (*entity.TOTPSecretData, error) {
	ctx, span := s.startSpan(ctx, "GenerateTOTPSecret")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	admin, err := s.resolveAdmin(ctx, nil)
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = admin.Account
	}

	secret, url, err := s.totp.GenerateSecret(s.settings.TOTPIssuer, name)
	if errors.Is(err, otp.ErrRandomSource) {
		slog.ErrorContext(ctx, "secure random source unavailable", "admin_id", admin.ID, "error", err)
		return nil, errCryptoSource(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "admin_id", admin.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.TOTPSecretData{Secret: secret, URL: url}, nil
}
