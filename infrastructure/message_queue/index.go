package messagequeue

import (
	"vericlass.io/infrastructure/message_queue/asynq"
	mq_types "vericlass.io/infrastructure/message_queue/types"
)

var TaskQueue mq_types.TaskQueueBroker = &asynq.AsynqBroker{}

func StartQueue() {
	TaskQueue.Start()
}
