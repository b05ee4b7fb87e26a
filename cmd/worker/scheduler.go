package main

import (
	"github.com/hibiken/asynq"

	"riffs-backend/internal/config"
	"riffs-backend/internal/infrastructure/queue"
)

func newScheduler(cfg config.RedisConfig) (*asynq.Scheduler, error) {
	return queue.NewScheduler(cfg)
}
