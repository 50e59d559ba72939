package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"go.opentelemetry.io/otel/attribute"
)

type VerifyInput struct {
	// Admin is optional; the authenticated admin is loaded when nil.
	Admin *entity.Admin
	Codes entity.SubmittedCodes
	// Want selects the factors the caller asks for; nil asks for both.
	Want             *entity.RequiredFactors
	AutoSendEmailOTP bool
}

// Verify checks the submitted codes against every factor the admin must pass.
// Email OTP is always checked, and consumed, before TOTP. Codes are compared
// exactly as submitted; only an empty string counts as not submitted.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (err error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()
	defer func() {
		s.count(ctx, s.verifyCounter, verifyResult(err), attribute.String("factor", factorOf(err).String()))
	}()

	admin, err := s.resolveAdmin(ctx, in.Admin)
	if err != nil {
		return err
	}

	want := lo.FromPtrOr(in.Want, entity.AllFactors)
	required := admin.RequiredFactors(want.EmailOTP, want.TOTP)

	return s.verifyFactors(ctx, admin, in.Codes, required, in.AutoSendEmailOTP)
}

func (s *Usecase) verifyFactors(ctx context.Context, admin *entity.Admin, codes entity.SubmittedCodes, required entity.RequiredFactors, autoSend bool) error {
	if required.EmailOTP {
		if err := s.verifyEmailOTP(ctx, admin, codes.EmailOTPCode, required, autoSend); err != nil {
			return err
		}
	}

	if required.TOTP {
		if err := s.verifyTOTP(ctx, admin, codes.TOTPCode, required); err != nil {
			return err
		}
	}

	return nil
}

func (s *Usecase) verifyEmailOTP(ctx context.Context, admin *entity.Admin, code string, required entity.RequiredFactors, autoSend bool) error {
	if code == "" {
		if autoSend {
			_, err := s.sendEmailOTP(ctx, admin)
			if err != nil && !errors.Is(err, entity.ErrCooldownActive) {
				slog.ErrorContext(ctx, "failed to auto send email otp code", "admin_id", admin.ID, "error", err)
				return errDispatchFailed(err, required)
			}
		}

		return errMissingCode(entity.FactorEmailOTP, required)
	}

	ok, err := s.repoCache.ConsumeEmailOTP(ctx, admin.ID, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume email otp code", "admin_id", admin.ID, "error", err)
		return goerror.NewServer(err)
	}

	if !ok {
		slog.WarnContext(ctx, "email otp code not match", "admin_id", admin.ID)
		return errInvalidCode(entity.FactorEmailOTP, required)
	}

	return nil
}

func (s *Usecase) verifyTOTP(ctx context.Context, admin *entity.Admin, code string, required entity.RequiredFactors) error {
	if code == "" {
		return errMissingCode(entity.FactorTOTP, required)
	}

	if !s.totp.Validate(code, admin.TOTPSecret, s.clock.Now()) {
		slog.WarnContext(ctx, "invalid totp code", "admin_id", admin.ID)
		return errInvalidCode(entity.FactorTOTP, required)
	}

	return nil
}

func verifyResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, entity.ErrMissingCode):
		return "missing_code"
	case errors.Is(err, entity.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, entity.ErrDispatchFailed):
		return "dispatch_failed"
	case errors.Is(err, entity.ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}
