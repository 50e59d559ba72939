package twofactor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/mail"
	"github.com/shandysiswandi/twofa/internal/pkg/mfa"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/router"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
	"github.com/shandysiswandi/twofa/internal/twofactor/inbound"
	"github.com/shandysiswandi/twofa/internal/twofactor/outbound/cache"
	"github.com/shandysiswandi/twofa/internal/twofactor/outbound/db"
	outmail "github.com/shandysiswandi/twofa/internal/twofactor/outbound/mail"
	"github.com/shandysiswandi/twofa/internal/twofactor/usecase"
)

const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// ErrRedisRequired is returned when the redis store is selected without a connection.
var ErrRedisRequired = errors.New("twofactor: redis store selected but no redis connection")

type codeStore interface {
	TTLEmailOTP(ctx context.Context, adminID int64) (time.Duration, error)
	SetEmailOTP(ctx context.Context, adminID int64, code string, ttl time.Duration) error
	ConsumeEmailOTP(ctx context.Context, adminID int64, code string) (bool, error)
	DelEmailOTP(ctx context.Context, adminID int64) error
}

type Dependency struct {
	DBConn       *pgxpool.Pool              `validate:"required"`
	CacheConn    *redis.Client              // required when modules.twofactor.store is redis
	Router       *router.Router             `validate:"required"`
	Mail         mail.Mail                  `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	MFAEncryptor mfa.Encryptor              `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Totp         otp.OTP                    `validate:"required"`
	Code         otp.CodeGenerator          `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	var repoCache codeStore

	switch strings.ToLower(dep.Config.GetString("modules.twofactor.store")) {
	case StoreMemory:
		repoCache = cache.NewMemory(dep.Clock, dep.Instrument)
	default:
		if dep.CacheConn == nil {
			return ErrRedisRequired
		}
		repoCache = cache.NewRedis(dep.CacheConn, dep.Instrument)
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.MFAEncryptor, dep.Instrument),
		RepoCache:  repoCache,
		RepoMail:   outmail.New(dep.Mail, dep.Instrument),
		Validator:  dep.Validator,
		Settings:   settingsFromConfig(dep.Config),
		Totp:       dep.Totp,
		Code:       dep.Code,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}

func settingsFromConfig(cfg config.Config) usecase.Settings {
	tz := cfg.GetString("modules.twofactor.email_otp_timezone")
	if tz == "" {
		tz = cfg.GetString("app.tz")
	}

	loc := time.Local
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	return usecase.Settings{
		EmailOTPExpiration: cfg.GetSecond("modules.twofactor.email_otp_expiration_seconds"),
		EmailOTPCooling:    cfg.GetSecond("modules.twofactor.email_otp_cooling_seconds"),
		EmailOTPCodeLength: cfg.GetInt("modules.twofactor.email_otp_code_length"),
		TOTPIssuer:         cfg.GetString("mfa.totp.issuer"),
		Location:           loc,
	}
}
