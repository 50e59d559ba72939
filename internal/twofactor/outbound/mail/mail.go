package mail

import (
	"context"
	"log/slog"
	netmail "net/mail"

	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/mail"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

// replyTo returns v when it is a single RFC 5322 address.
func replyTo(v string) string {
	if v == "" {
		return ""
	}
	if _, err := netmail.ParseAddress(v); err != nil {
		return ""
	}
	return v
}

func (m *Mail) Send(ctx context.Context, in entity.Email) error {
	ctx, span := m.ins.Tracer("twofactor.outbound.mail").Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.String("mail.context", in.ReplyToOrContext))

	if err := m.client.Send(ctx, mail.Message{
		To:       []string{in.To},
		ReplyTo:  replyTo(in.ReplyToOrContext),
		Subject:  in.Subject,
		TextBody: in.TextBody,
		HTMLBody: in.HTMLBody,
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	slog.InfoContext(ctx, "email otp code delivered", "context", in.ReplyToOrContext)
	return nil
}
