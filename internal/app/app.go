package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twofa/internal/pkg/clock"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/jwt"
	"github.com/shandysiswandi/twofa/internal/pkg/mail"
	"github.com/shandysiswandi/twofa/internal/pkg/mfa"
	"github.com/shandysiswandi/twofa/internal/pkg/otp"
	"github.com/shandysiswandi/twofa/internal/pkg/router"
	"github.com/shandysiswandi/twofa/internal/pkg/uid"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator    validator.Validator
	clock        clock.Clocker
	uuid         uid.StringID
	totp         otp.OTP
	code         otp.CodeGenerator
	jwt          jwt.JWT
	mfaEncryptor mfa.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	mail      mail.Mail

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
