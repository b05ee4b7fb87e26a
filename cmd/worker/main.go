package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
	"riffs-backend/pkg/container"
	"riffs-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logger.Init(cfg.App.Env)

	ctx := context.Background()
	c, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init container")
	}
	defer c.Cleanup()

	srv := newWorkerServer(cfg.Redis)
	mux := newTaskMux(c)

	scheduler, err := newScheduler(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("init scheduler")
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Msg("worker starting")
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info().Msg("scheduler starting")
		if err := scheduler.Run(); err != nil {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("worker exited with error")
		os.Exit(1)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down worker")
	}

	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("worker stopped")
}
