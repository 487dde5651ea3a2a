package queue_tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"vericlass.io/application/repository"
	"vericlass.io/infrastructure/logger"
	mq_types "vericlass.io/infrastructure/message_queue/types"
)

var HandleAttendanceRecordedTaskName mq_types.Queues = "attendance_recorded"

type AttendanceRecordedPayload struct {
	AttendanceID string
	EnrollmentID string
}

// HandleAttendanceRecordedTask bumps the present tally on the class session
// a record belongs to. The tally is advisory; the attendance records remain
// the source of truth.
func HandleAttendanceRecordedTask(ctx context.Context, t *asynq.Task) error {
	var payload AttendanceRecordedPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling attendance queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}

	updated, err := repository.ClassSessionRepo().IncrementField(ctx, map[string]interface{}{
		"enrollmentID": payload.EnrollmentID,
	}, "presentCount", 1)
	if err != nil {
		return err
	}
	if !updated {
		logger.Warning("attendance recorded for an unknown class session", logger.LoggerOptions{
			Key:  "enrollmentID",
			Data: payload.EnrollmentID,
		}, logger.LoggerOptions{
			Key:  "attendanceID",
			Data: payload.AttendanceID,
		})
	}
	return nil
}
