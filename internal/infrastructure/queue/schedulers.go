package queue

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"riffs-backend/internal/config"
	"riffs-backend/internal/shared"
)

// NewScheduler wires the recurring maintenance tasks. Times are local
// off-peak hours.
func NewScheduler(cfg config.RedisConfig) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		&asynq.SchedulerOpts{},
	)

	entries := []struct {
		spec     string
		taskType string
		queue    string
	}{
		// Clear expired verification/reset tokens at 2AM.
		{"0 2 * * *", shared.TaskAuthCleanupTokens, shared.QueueLow},
		// Reconcile the audio bucket at 3AM.
		{"0 3 * * *", shared.TaskClipOrphanSweep, shared.QueueLow},
	}

	for _, entry := range entries {
		task := asynq.NewTask(entry.taskType, nil)
		entryID, err := scheduler.Register(entry.spec, task, asynq.Queue(entry.queue))
		if err != nil {
			return nil, fmt.Errorf("register %q: %w", entry.taskType, err)
		}
		log.Info().Str("task", entry.taskType).Str("cron", entry.spec).Str("entry_id", entryID).Msg("scheduled task registered")
	}

	return scheduler, nil
}
