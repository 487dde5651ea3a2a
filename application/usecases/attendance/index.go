package attendance_usecases

import (
	"context"
	"encoding/json"
	"time"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/constants"
	"vericlass.io/application/eligibility"
	"vericlass.io/application/repository"
	verification_usecases "vericlass.io/application/usecases/verification"
	"vericlass.io/application/utils"
	"vericlass.io/entities"
	"vericlass.io/infrastructure/database/repository/cache"
	mongoRepo "vericlass.io/infrastructure/database/repository/mongo"
	"vericlass.io/infrastructure/logger"
	messagequeue "vericlass.io/infrastructure/message_queue"
	queue_tasks "vericlass.io/infrastructure/message_queue/tasks"
	mq_types "vericlass.io/infrastructure/message_queue/types"
)

type attendanceRecordStore struct{}

func (attendanceRecordStore) CountDocs(ctx context.Context, filter map[string]interface{}) (int64, error) {
	return repository.AttendanceRecordRepo().CountDocs(ctx, filter)
}

func (attendanceRecordStore) CreateOne(ctx context.Context, record entities.AttendanceRecord) (*entities.AttendanceRecord, error) {
	return repository.AttendanceRecordRepo().CreateOne(ctx, record)
}

type campusZoneFinder struct{}

func (campusZoneFinder) FindZone(ctx context.Context, faculty string, name string) (*entities.CampusLocation, error) {
	return repository.CampusLocationRepo().FindOneByFilter(ctx, map[string]interface{}{
		"faculty": faculty,
		"name":    name,
	})
}

type classSessionFinder struct{}

func (classSessionFinder) FindSession(ctx context.Context, enrollmentID string) (*entities.ClassSession, error) {
	return repository.ClassSessionRepo().FindOneByFilter(ctx, map[string]interface{}{
		"enrollmentID": enrollmentID,
	})
}

func enqueueAttendanceRecorded(record entities.AttendanceRecord) {
	payload, err := json.Marshal(queue_tasks.AttendanceRecordedPayload{
		AttendanceID: record.ID,
		EnrollmentID: record.EnrollmentID,
	})
	if err != nil {
		logger.Error("an error occured while marshalling attendance task payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	messagequeue.TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleAttendanceRecordedTaskName,
		Payload:  payload,
		Priority: mq_types.Medium,
	})
}

// DefaultPipeline wires the pipeline against mongo, redis and the live
// verification directory.
func DefaultPipeline() *AttendancePipeline {
	return &AttendancePipeline{
		Records:    attendanceRecordStore{},
		Zones:      campusZoneFinder{},
		Sessions:   classSessionFinder{},
		Locks:      &cache.Cache,
		Verified:   verification_usecases.IsSessionMatched,
		Clock:      time.Now,
		Grace:      time.Duration(utils.GetEnvInt("ATTENDANCE_GRACE_MINUTES", eligibility.DefaultGraceMinutes)) * time.Minute,
		LockTTL:    10 * time.Second,
		OnRecorded: enqueueAttendanceRecorded,
	}
}

// MarkAttendanceUseCase runs the scan pipeline and translates the outcome
// into a client response code.
func MarkAttendanceUseCase(ctx any, input MarkAttendanceInput, deviceID string) *entities.AttendanceRecord {
	record, rejection, err := DefaultPipeline().Mark(context.TODO(), input)
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}
	if rejection != nil {
		apperrors.CustomError(ctx, rejection.Message, rejectionResponseCode(rejection.Kind), deviceID)
		return nil
	}
	return record
}

func rejectionResponseCode(kind RejectionKind) *uint {
	switch kind {
	case RejectionNotVerified:
		return &constants.VERIFICATION_FAILED
	case RejectionOutsideTimeWindow:
		return &constants.ATTENDANCE_OUTSIDE_TIME_WINDOW
	case RejectionOutsideGeofence:
		return &constants.ATTENDANCE_OUTSIDE_GEOFENCE
	case RejectionLocationUnavailable:
		return &constants.ATTENDANCE_LOCATION_UNAVAILABLE
	case RejectionAlreadyRecorded, RejectionInProgress:
		return &constants.ATTENDANCE_ALREADY_RECORDED
	default:
		return nil
	}
}

// FetchHistoryUseCase lists a student's attendance records, newest first.
func FetchHistoryUseCase(ctx any, studentID string, limit int64, deviceID string) *[]entities.AttendanceRecord {
	var sort interface{} = map[string]interface{}{"recordedAt": -1}
	records, err := repository.AttendanceRecordRepo().FindMany(context.TODO(), map[string]interface{}{
		"studentID": studentID,
	}, &mongoRepo.FindOptions{Sort: &sort, Limit: &limit})
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}
	return records
}
