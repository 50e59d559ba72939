package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/jwt"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/shandysiswandi/twofa/internal/twofactor/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultEmailOTPExpiration = 5 * time.Minute
	defaultEmailOTPCooling    = time.Minute
	defaultEmailOTPCodeLength = 6
)

type repoDB interface {
	GetAdminByID(ctx context.Context, id int64) (*entity.Admin, error)
	UpdateAdminSettings(ctx context.Context, in entity.AdminSettings) error
}

type repoCache interface {
	TTLEmailOTP(ctx context.Context, adminID int64) (time.Duration, error)
	SetEmailOTP(ctx context.Context, adminID int64, code string, ttl time.Duration) error
	ConsumeEmailOTP(ctx context.Context, adminID int64, code string) (bool, error)
	DelEmailOTP(ctx context.Context, adminID int64) error
}

type repoMail interface {
	Send(ctx context.Context, in entity.Email) error
}

// Settings are the per-deployment knobs of the 2FA flow.
type Settings struct {
	// EmailOTPExpiration is how long an emailed code stays valid.
	EmailOTPExpiration time.Duration
	// EmailOTPCooling is the minimum interval between two issued codes.
	EmailOTPCooling time.Duration
	// EmailOTPCodeLength is the number of characters in an emailed code.
	EmailOTPCodeLength int
	// TOTPIssuer is written into provisioning URIs.
	TOTPIssuer string
	// Location is used to render expiry timestamps in emails.
	Location *time.Location
}

type Usecase struct {
	repoDB    repoDB
	repoCache repoCache
	repoMail  repoMail
	validator validator.Validator
	settings  Settings
	totp      otp.OTP
	code      otp.CodeGenerator
	clock     clock.Clocker
	ins       instrument.Instrumentation

	verifyCounter metric.Int64Counter
	sendCounter   metric.Int64Counter
}

type Dependency struct {
	RepoDB     repoDB
	RepoCache  repoCache
	RepoMail   repoMail
	Validator  validator.Validator
	Settings   Settings
	Totp       otp.OTP
	Code       otp.CodeGenerator
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	st := dep.Settings
	if st.EmailOTPExpiration <= 0 {
		st.EmailOTPExpiration = defaultEmailOTPExpiration
	}
	if st.EmailOTPCooling < 0 {
		st.EmailOTPCooling = defaultEmailOTPCooling
	}
	if st.EmailOTPCodeLength <= 0 {
		st.EmailOTPCodeLength = defaultEmailOTPCodeLength
	}
	if st.Location == nil {
		st.Location = time.Local
	}

	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	meter := ins.Meter("twofactor.usecase")
	verifyCounter, err := meter.Int64Counter("twofactor.verify.total",
		metric.WithDescription("Two-factor verification attempts by result"))
	if err != nil {
		slog.Warn("failed to create verify counter", "error", err)
	}
	sendCounter, err := meter.Int64Counter("twofactor.email_otp.sent.total",
		metric.WithDescription("Email OTP dispatch attempts by result"))
	if err != nil {
		slog.Warn("failed to create email otp counter", "error", err)
	}

	return &Usecase{
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoMail:      dep.RepoMail,
		validator:     dep.Validator,
		settings:      st,
		totp:          dep.Totp,
		code:          dep.Code,
		clock:         dep.Clock,
		ins:           ins,
		verifyCounter: verifyCounter,
		sendCounter:   sendCounter,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofactor.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, counter metric.Int64Counter, result string, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("result", result))...))
}

// resolveAdmin returns admin when given, otherwise loads the admin carried by
// the authenticated request.
func (s *Usecase) resolveAdmin(ctx context.Context, admin *entity.Admin) (*entity.Admin, error) {
	if admin != nil {
		return admin, nil
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, errUnauthenticated()
	}

	adm, err := s.repoDB.GetAdminByID(ctx, clm.AdminID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "admin account not found", "admin_id", clm.AdminID)
		return nil, errUnauthenticated()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get admin by id", "admin_id", clm.AdminID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return adm, nil
}
