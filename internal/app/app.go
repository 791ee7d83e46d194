package app

import (
	"context"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/config"
	"github.com/vovakirdan/relaychat/internal/core"
	"github.com/vovakirdan/relaychat/internal/service/sessions"
	"github.com/vovakirdan/relaychat/internal/store"
	"github.com/vovakirdan/relaychat/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/relaychat/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	journal         *sessions.Journal
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	a := &App{
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}

	var (
		recorder core.SessionRecorder
		st       store.SessionStore
	)
	if cfg.DatabasePath != "" {
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("init store: %w", err)
		}
		logger.Info().Str("db_path", cfg.DatabasePath).Msg("session journal enabled")

		a.store = db
		a.journal = sessions.NewJournal(db, 0, logger)
		recorder = a.journal
		st = db
	}

	a.hub = core.NewHub(core.Options{
		RosterIncludeUnnamed: cfg.RosterIncludeUnnamed,
		Policy:               core.AllowOrigins(cfg.AllowedOrigins),
		Recorder:             recorder,
		Logger:               logger,
	})
	a.server = transporthttp.NewServer(a.hub, st, cfg, logger)

	return a, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() stdhttp.Handler { return a.server.Handler }

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.hub.Run(hubCtx)

	journalCtx, stopJournal := context.WithCancel(context.Background())
	defer stopJournal()
	if a.journal != nil {
		go a.journal.Run(journalCtx)
	}

	// Websocket handlers derive from this context; cancelling it ends
	// hijacked connections that Shutdown does not track.
	connCtx, cancelConns := context.WithCancel(context.Background())
	defer cancelConns()
	a.server.BaseContext = func(net.Listener) context.Context { return connCtx }

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	var err error
	select {
	case err = <-serverErr:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		cancelConns()
		if shutdownErr := a.server.Shutdown(shutdownCtx); shutdownErr != nil {
			a.log.Warn().Err(shutdownErr).Msg("http shutdown incomplete")
			_ = a.server.Close()
		}
		err = <-serverErr
	}

	stopHub()
	a.stopJournal(stopJournal)
	a.cleanup()
	return err
}

func (a *App) stopJournal(stop context.CancelFunc) {
	if a.journal == nil {
		return
	}
	stop()
	select {
	case <-a.journal.Done():
	case <-time.After(a.shutdownTimeout):
		a.log.Warn().Msg("session journal did not drain in time")
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
