package asynq

import (
	"os"
	"time"

	"github.com/hibiken/asynq"
	"vericlass.io/infrastructure/logger"
	queue_tasks "vericlass.io/infrastructure/message_queue/tasks"
	mq_types "vericlass.io/infrastructure/message_queue/types"
)

type AsynqBroker struct {
	Client *asynq.Client
}

func (aq *AsynqBroker) Start() {
	redisConnOpt := asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	aq.Client = asynq.NewClient(redisConnOpt)

	srv := asynq.NewServer(
		redisConnOpt,
		asynq.Config{
			Concurrency: 100,
			Queues: map[string]int{
				string(mq_types.High):   7,
				string(mq_types.Medium): 2,
				string(mq_types.Low):    1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(string(queue_tasks.HandleAttendanceRecordedTaskName), queue_tasks.HandleAttendanceRecordedTask)
	mux.HandleFunc(string(queue_tasks.HandleVerificationSweepTaskName), queue_tasks.HandleVerificationSweepTask)

	scheduler := asynq.NewScheduler(redisConnOpt, nil)
	if _, err := scheduler.Register("@every 5m",
		asynq.NewTask(string(queue_tasks.HandleVerificationSweepTaskName), nil),
		asynq.Queue(string(mq_types.Low))); err != nil {
		logger.Error("failed to register verification sweep schedule", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("task scheduler stopped", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
	}()

	srv.Run(mux)
}

func (aq *AsynqBroker) Enqueue(task mq_types.QueueTask) {
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	aq.Client.Enqueue(asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(time.Duration(task.ProcessIn)*time.Second),
		asynq.MaxRetry(10),
		asynq.Timeout(time.Second*time.Duration(task.TimeOut)),
		asynq.Queue(string(task.Priority)))
}
