package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat/internal/app"
	"github.com/vovakirdan/relaychat/internal/config"
	applog "github.com/vovakirdan/relaychat/internal/log"
)

// loadConfig resolves config.yaml, env and flags, and returns the logger built from the result.
func loadConfig(f *flags) (config.Config, *zerolog.Logger, error) {
	bootLog := applog.New("info", "console")

	cfg, path, err := config.Load(bootLog, f.configPath)
	if err != nil {
		return cfg, bootLog, err
	}
	cfg.UpdateFrom(config.Config{
		Addr:           f.addr,
		LogLevel:       f.logLevel,
		StaticDir:      f.staticDir,
		DatabasePath:   f.dbPath,
		AllowedOrigins: f.origins,
	})

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return cfg, logger, nil
}

func runServe(parent context.Context, f *flags) error {
	cfg, logger, err := loadConfig(f)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Str("static_dir", cfg.StaticDir).Msg("starting relaychat server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
