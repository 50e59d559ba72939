package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
)

const emailOTPExpiryLayout = "2006-01-02 15:04:05 (UTC-07:00)"

type SendEmailOTPInput struct {
	// Admin is optional; the authenticated admin is loaded when nil.
	Admin *entity.Admin
}

type SendEmailOTPOutput struct {
	Sent      bool
	ExpiresAt time.Time
}

// SendEmailOTP issues a new email OTP code for the admin and emails it.
func (s *Usecase) SendEmailOTP(ctx context.Context, in SendEmailOTPInput) (*SendEmailOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "SendEmailOTP")
	defer span.End()

	admin, err := s.resolveAdmin(ctx, in.Admin)
	if err != nil {
		return nil, err
	}

	out, err := s.sendEmailOTP(ctx, admin)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// sendEmailOTP enforces the cooldown, stores a fresh code and delivers it.
// A stored code is kept even when delivery fails.
func (s *Usecase) sendEmailOTP(ctx context.Context, admin *entity.Admin) (out *SendEmailOTPOutput, err error) {
	defer func() { s.count(ctx, s.sendCounter, sendResult(out, err)) }()

	if !admin.HasEmail() {
		slog.WarnContext(ctx, "admin has no email bound", "admin_id", admin.ID)
		return nil, errNoEmailBound()
	}

	window := s.settings.EmailOTPExpiration

	ttl, err := s.repoCache.TTLEmailOTP(ctx, admin.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get email otp ttl", "admin_id", admin.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if ttl > 0 && window-ttl < s.settings.EmailOTPCooling {
		slog.WarnContext(ctx, "email otp code still cooling down", "admin_id", admin.ID, "ttl_seconds", int64(ttl.Seconds()))
		return nil, errCooldownActive()
	}

	code, err := s.code.Generate(s.settings.EmailOTPCodeLength)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate email otp code", "admin_id", admin.ID, "error", err)
		return nil, errCryptoSource(err)
	}

	if err := s.repoCache.SetEmailOTP(ctx, admin.ID, code, window); err != nil {
		slog.ErrorContext(ctx, "failed to repo set email otp code", "admin_id", admin.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	expiresAt := s.clock.Now().Add(window)
	html, text := s.emailOTPBody(code, expiresAt)

	if err := s.repoMail.Send(ctx, entity.Email{
		To:               admin.Email,
		Subject:          "Email OTP verification code",
		HTMLBody:         html,
		TextBody:         text,
		ReplyToOrContext: admin.Account,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send email otp code", "admin_id", admin.ID, "error", err)
		return &SendEmailOTPOutput{Sent: false, ExpiresAt: expiresAt}, nil
	}

	return &SendEmailOTPOutput{Sent: true, ExpiresAt: expiresAt}, nil
}

func (s *Usecase) emailOTPBody(code string, expiresAt time.Time) (html string, text string) {
	expiry := expiresAt.In(s.settings.Location).Format(emailOTPExpiryLayout)
	notice := "Please note that once this code passes verification it becomes invalid immediately, " +
		"even if the rest of the operation (such as signing in) fails."

	html = strings.Join([]string{
		fmt.Sprintf("Your email OTP code is: <strong>%s</strong>", code),
		fmt.Sprintf("This code is valid until %s.", expiry),
		notice,
	}, "<br />")

	text = strings.Join([]string{
		"Your email OTP code is: " + code,
		fmt.Sprintf("This code is valid until %s.", expiry),
		notice,
	}, "\n")

	return html, text
}

func sendResult(out *SendEmailOTPOutput, err error) string {
	switch {
	case err == nil && out != nil && out.Sent:
		return "sent"
	case err == nil:
		return "delivery_failed"
	case errors.Is(err, entity.ErrCooldownActive):
		return "cooldown"
	case errors.Is(err, entity.ErrNoEmailBound):
		return "no_email"
	default:
		return "error"
	}
}
