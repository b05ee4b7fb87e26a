package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
)

// Enqueuer hands background tasks to the worker via asynq.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
	Close() error
}

type asynqEnqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(cfg config.RedisConfig) Enqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &asynqEnqueuer{client: client}
}

func (e *asynqEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal task payload %q: %w", taskType, err)
	}

	task := asynq.NewTask(taskType, data)
	info, err := e.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %q: %w", taskType, err)
	}

	log.Debug().Str("task", taskType).Str("task_id", info.ID).Str("queue", info.Queue).Msg("task enqueued")
	return nil
}

func (e *asynqEnqueuer) Close() error {
	return e.client.Close()
}
