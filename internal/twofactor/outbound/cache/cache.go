package cache

import (
	"context"
	"strconv"

	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// keyPrefix is shared with other deployments reading the same store.
const keyPrefix = "twoFactorAuthentication:emailOtpCode:"

func emailOTPKey(adminID int64) string {
	return keyPrefix + strconv.FormatInt(adminID, 10)
}

type tracer struct {
	ins instrument.Instrumentation
}

func (t tracer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.ins.Tracer("twofactor.outbound.cache").Start(ctx, name)
}

func (t tracer) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
