package main

import (
	"context"

	"github.com/shandysiswandi/twofa/internal/app"
)

// @title           Two-Factor Authentication API
// @version         1.0
// @description     Second-factor verification for admin accounts using email OTP and TOTP.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start() // blocks until a termination signal or a server failure

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()

	application.Stop(ctx)
}
