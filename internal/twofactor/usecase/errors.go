package usecase

import (
	"errors"
	"fmt"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

func errUnauthenticated() error {
	return goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized,
		goerror.WithCause(entity.ErrUnauthenticated))
}

func errMissingCode(f entity.Factor, rf entity.RequiredFactors) error {
	msg := "Please enter the TOTP code"
	if f == entity.FactorEmailOTP {
		msg = "Please enter the email OTP code"
	}

	return goerror.NewBusiness(msg, goerror.CodeBadRequest,
		goerror.WithCause(&entity.FactorError{Factor: f, Err: entity.ErrMissingCode}),
		goerror.WithData(entity.VerificationContext{RequiredFactors: rf}))
}

func errInvalidCode(f entity.Factor, rf entity.RequiredFactors) error {
	msg := "Invalid TOTP code"
	if f == entity.FactorEmailOTP {
		msg = "Invalid email OTP code"
	}

	return goerror.NewBusiness(msg, goerror.CodeBadRequest,
		goerror.WithCause(&entity.FactorError{Factor: f, Err: entity.ErrInvalidCode}),
		goerror.WithData(entity.VerificationContext{RequiredFactors: rf}))
}

func errDispatchFailed(cause error, rf entity.RequiredFactors) error {
	return goerror.NewServerMsg(fmt.Errorf("%w: %w", entity.ErrDispatchFailed, cause), "Failed to send email OTP code",
		goerror.WithData(entity.VerificationContext{RequiredFactors: rf}))
}

func errNoEmailBound() error {
	return goerror.NewBusiness("No email is bound to this account, cannot send OTP code", goerror.CodeBadRequest,
		goerror.WithCause(entity.ErrNoEmailBound))
}

func errCooldownActive() error {
	return goerror.NewBusiness("Email OTP code was sent recently, please try again later", goerror.CodeTooManyRequest,
		goerror.WithCause(entity.ErrCooldownActive))
}

func errCryptoSource(cause error) error {
	return goerror.NewServer(fmt.Errorf("%w: %w", entity.ErrCryptoSource, cause))
}

// factorOf returns the factor a MissingCode or InvalidCode error refers to.
func factorOf(err error) entity.Factor {
	var ferr *entity.FactorError
	if !errors.As(err, &ferr) {
		return entity.FactorUnknown
	}
	return ferr.Factor
}
