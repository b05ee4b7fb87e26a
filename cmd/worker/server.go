package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
	"riffs-backend/internal/shared"
	"riffs-backend/pkg/container"
)

func newWorkerServer(cfg config.RedisConfig) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				shared.QueueHigh:    6,
				shared.QueueDefault: 3,
				shared.QueueLow:     1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("task", task.Type()).Msg("task failed")
			}),
		},
	)
}

// newTaskMux routes task types to their handlers.
func newTaskMux(c *container.Container) *asynq.ServeMux {
	mux := asynq.NewServeMux()

	mux.Handle(shared.TaskEmailVerification, c.EmailHandler)
	mux.Handle(shared.TaskEmailPasswordReset, c.EmailHandler)
	mux.Handle(shared.TaskClipDeleteAudio, c.DeleteAudioHandler)
	mux.Handle(shared.TaskClipOrphanSweep, c.OrphanSweepHandler)
	mux.Handle(shared.TaskAuthCleanupTokens, c.TokenCleanupHandler)

	return mux
}
