package shared

// Asynq task types.
const (
	TaskClipDeleteAudio    = "clip:delete_audio"
	TaskClipOrphanSweep    = "clip:orphan_sweep"
	TaskAuthCleanupTokens  = "auth:cleanup_expired_tokens"
	TaskEmailVerification  = "email:verification"
	TaskEmailPasswordReset = "email:password_reset"
)

// Queue names, highest priority first.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)
