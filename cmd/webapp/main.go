package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/taskdeck/webapp/internal/app/bridge"
	"github.com/taskdeck/webapp/internal/app/web"
	"github.com/taskdeck/webapp/internal/authprovider"
	"github.com/taskdeck/webapp/internal/backend"
	"github.com/taskdeck/webapp/internal/platform/env"
	"github.com/taskdeck/webapp/internal/session"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenAddr := env.String("LISTEN_ADDR", env.DefaultListenAddr)
	backendURL := env.BackendURL()
	providerURL := env.String("AUTH_PROVIDER_URL", "")
	sessionSecret := env.String("SESSION_SECRET", "dev-insecure-change-me")
	appEnv := env.String("APP_ENV", "development")
	shutdownTimeout := env.Duration("SHUTDOWN_TIMEOUT", 10*time.Second)

	log := newLogger(appEnv)

	backendClient := backend.NewClient(backendURL)

	var provider bridge.Provider
	if providerURL != "" {
		provider = authprovider.NewClient(providerURL)
	}
	bridgeSvc := bridge.NewService(provider, backendClient, log)

	sessions := session.NewStore(sessionSecret, appEnv == "production")

	handler := web.NewHandler(bridgeSvc, backendClient, sessions, log)

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Str("backend_url", backendURL).
		Bool("auth_provider", provider != nil).
		Msg("webapp listening")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("server failed")
	case <-runCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
