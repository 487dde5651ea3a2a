package queue_tasks

import (
	"context"

	"github.com/hibiken/asynq"
	verification_usecases "vericlass.io/application/usecases/verification"
	"vericlass.io/infrastructure/logger"
	mq_types "vericlass.io/infrastructure/message_queue/types"
)

var HandleVerificationSweepTaskName mq_types.Queues = "verification_sweep"

// HandleVerificationSweepTask clears finished verification sessions out of
// the in-memory directory.
func HandleVerificationSweepTask(ctx context.Context, t *asynq.Task) error {
	removed := verification_usecases.SweepSessions()
	if removed > 0 {
		logger.Info("swept terminal verification sessions", logger.LoggerOptions{
			Key:  "removed",
			Data: removed,
		})
	}
	return nil
}
