package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/auth"
	"github.com/studyhub/studyhub-server/internal/config"
	"github.com/studyhub/studyhub-server/internal/core"
	"github.com/studyhub/studyhub-server/internal/moderation"
	"github.com/studyhub/studyhub-server/internal/notify"
	"github.com/studyhub/studyhub-server/internal/store"
	"github.com/studyhub/studyhub-server/internal/store/sqlite"
	transporthttp "github.com/studyhub/studyhub-server/internal/transport/http"
)

// App wires together the event bus, persistence and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	recorder        *store.Recorder
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	var notifier notify.Notifier
	if n := notify.NewSMTPNotifier(cfg.SMTP, logger); n != nil {
		notifier = n
	}
	moderationService := moderation.NewService(cfg.Moderation, st, notifier, logger)

	recorder := store.NewRecorder(st, logger)
	hub := core.NewHub(recorder, logger)

	server := transporthttp.NewServer(cfg, transporthttp.ServerDeps{
		Hub:        hub,
		Auth:       authService,
		Moderation: moderationService,
		Reminders:  st,
		Messages:   st,
		Log:        logger,
	})

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		recorder:        recorder,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup drains pending chat writes and closes the database.
func (a *App) cleanup() {
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
