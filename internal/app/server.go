package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Start runs the HTTP server until a termination signal arrives or the server
// fails. The returned channel is closed once either happens.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})
	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			a.cancel()
		}
	}()

	go func() {
		defer close(done)
		defer stop()

		<-ctx.Done()
		slog.Info("shutdown requested", "cause", context.Cause(ctx))
	}()

	return done
}

// ShutdownTimeout bounds how long Stop may take.
func (a *App) ShutdownTimeout() time.Duration {
	if d := a.config.GetSecond("app.server.http.shutdown_timeout_seconds"); d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Stop drains in-flight requests, then releases resources in reverse order of
// acquisition.
func (a *App) Stop(ctx context.Context) {
	a.cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		closer := a.closers[i]
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application stopped")
}
