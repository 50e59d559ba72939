package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/twofa/internal/twofactor"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.twofactor.enabled") {
		if err := twofactor.New(twofactor.Dependency{
			DBConn:       a.dbConn,
			CacheConn:    a.cacheConn,
			Router:       a.router,
			Mail:         a.mail,
			Config:       a.config,
			Instrument:   a.ins,
			MFAEncryptor: a.mfaEncryptor,
			Clock:        a.clock,
			Totp:         a.totp,
			Code:         a.code,
			Validator:    a.validator,
		}); err != nil {
			slog.Error("failed to init module twofactor", "error", err)
			os.Exit(1)
		}
	}
}
