package main

import (
	"context"
	"os"

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

	if err := runServer(c); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}
