package attendance_usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"vericlass.io/application/constants"
	"vericlass.io/application/eligibility"
	"vericlass.io/entities"
	"vericlass.io/infrastructure/logger"
)

type RejectionKind string

const (
	RejectionMalformedTicket     RejectionKind = "malformed_ticket"
	RejectionNotVerified         RejectionKind = "not_verified"
	RejectionOutsideTimeWindow   RejectionKind = "outside_time_window"
	RejectionOutsideGeofence     RejectionKind = "outside_geofence"
	RejectionLocationUnavailable RejectionKind = "location_unavailable"
	RejectionAlreadyRecorded     RejectionKind = "already_recorded"
	RejectionInProgress          RejectionKind = "in_progress"
)

// Rejection explains why a scan was refused. It is distinct from an error:
// a rejection is the pipeline working as intended.
type Rejection struct {
	Kind    RejectionKind
	Message string
}

// RecordStore is the slice of the attendance repository the pipeline needs.
type RecordStore interface {
	CountDocs(ctx context.Context, filter map[string]interface{}) (int64, error)
	CreateOne(ctx context.Context, record entities.AttendanceRecord) (*entities.AttendanceRecord, error)
}

// ZoneFinder resolves a campus location. Zones are registered per faculty,
// so two faculties may each have a location of the same name.
type ZoneFinder interface {
	FindZone(ctx context.Context, faculty string, name string) (*entities.CampusLocation, error)
}

// SessionFinder resolves the stored class session a ticket points at.
type SessionFinder interface {
	FindSession(ctx context.Context, enrollmentID string) (*entities.ClassSession, error)
}

// LockManager serializes concurrent scans for the same student and session.
type LockManager interface {
	AcquireLock(key string, ttl time.Duration) bool
	ReleaseLock(key string)
}

// IdentityGate reports whether a verification session finished with a match
// for the student.
type IdentityGate func(sessionID string, studentID string) bool

type MarkAttendanceInput struct {
	Student               entities.Student
	TicketPayload         string
	VerificationSessionID string
	Location              *eligibility.GeoPoint
}

// AttendancePipeline runs every eligibility gate in order and records
// attendance only when all of them pass. Each gate fails closed: when a gate
// cannot decide, the scan is rejected.
type AttendancePipeline struct {
	Records    RecordStore
	Zones      ZoneFinder
	Sessions   SessionFinder
	Locks      LockManager
	Verified   IdentityGate
	Clock      func() time.Time
	Grace      time.Duration
	LockTTL    time.Duration
	OnRecorded func(record entities.AttendanceRecord)
}

// Mark runs the pipeline. Exactly one of record and rejection is set on a
// nil error.
func (pipeline *AttendancePipeline) Mark(ctx context.Context, input MarkAttendanceInput) (*entities.AttendanceRecord, *Rejection, error) {
	ticket, err := eligibility.ParseQRPayload(input.TicketPayload)
	if err != nil {
		return nil, &Rejection{
			Kind:    RejectionMalformedTicket,
			Message: "this code could not be read as a session ticket",
		}, nil
	}

	if !pipeline.Verified(input.VerificationSessionID, input.Student.ID) {
		return nil, &Rejection{
			Kind:    RejectionNotVerified,
			Message: "complete face verification before scanning the session code",
		}, nil
	}

	now := pipeline.Clock()
	within, err := eligibility.WithinTimeRange(ticket.TimeRange, pipeline.graceFor(ctx, ticket.EnrollmentID), now)
	if err != nil {
		// an unreadable schedule is treated the same as a malformed ticket
		return nil, &Rejection{
			Kind:    RejectionMalformedTicket,
			Message: "this code carries an unreadable session schedule",
		}, nil
	}
	if !within {
		return nil, &Rejection{
			Kind:    RejectionOutsideTimeWindow,
			Message: fmt.Sprintf("attendance for this session is only open around %s", ticket.TimeRange),
		}, nil
	}

	rejection, err := pipeline.checkGeofence(ctx, ticket, input.Location)
	if err != nil {
		return nil, nil, err
	}
	if rejection != nil {
		return nil, rejection, nil
	}

	lockKey := fmt.Sprintf("attendance-lock-%s-%s", input.Student.ID, ticket.EnrollmentID)
	if !pipeline.Locks.AcquireLock(lockKey, pipeline.LockTTL) {
		return nil, &Rejection{
			Kind:    RejectionInProgress,
			Message: "a scan for this session is already being processed",
		}, nil
	}
	defer pipeline.Locks.ReleaseLock(lockKey)

	existing, err := pipeline.Records.CountDocs(ctx, map[string]interface{}{
		"studentID":    input.Student.ID,
		"enrollmentID": ticket.EnrollmentID,
	})
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, &Rejection{
			Kind:    RejectionAlreadyRecorded,
			Message: "attendance has already been recorded for this session",
		}, nil
	}

	record := entities.AttendanceRecord{
		StudentID:    input.Student.ID,
		MatricNumber: input.Student.MatricNumber,
		StudentName:  input.Student.FullName,
		EnrollmentID: ticket.EnrollmentID,
		Faculty:      ticket.Faculty,
		Course:       ticket.Course,
		Section:      ticket.Section,
		TimeRange:    ticket.TimeRange,
		LocationName: ticket.LocationName,
		Status:       constants.ATTENDANCE_STATUS_PRESENT,
		RecordedAt:   now,
	}
	if input.Location != nil {
		record.Latitude = input.Location.Latitude
		record.Longitude = input.Location.Longitude
	}

	created, err := pipeline.Records.CreateOne(ctx, record)
	if err != nil {
		// the unique index is the backstop for scans racing on two instances
		if mongo.IsDuplicateKeyError(err) {
			return nil, &Rejection{
				Kind:    RejectionAlreadyRecorded,
				Message: "attendance has already been recorded for this session",
			}, nil
		}
		return nil, nil, err
	}

	logger.Info("attendance recorded", logger.LoggerOptions{
		Key:  "studentID",
		Data: input.Student.ID,
	}, logger.LoggerOptions{
		Key:  "enrollmentID",
		Data: ticket.EnrollmentID,
	})

	if pipeline.OnRecorded != nil {
		pipeline.OnRecorded(*created)
	}
	return created, nil, nil
}

// graceFor prefers the grace configured on the class session itself; the
// ticket is self-contained, so an unresolvable session falls back to the
// pipeline-wide default.
func (pipeline *AttendancePipeline) graceFor(ctx context.Context, enrollmentID string) time.Duration {
	if pipeline.Sessions == nil {
		return pipeline.Grace
	}
	session, err := pipeline.Sessions.FindSession(ctx, enrollmentID)
	if err != nil {
		logger.Warning("could not resolve the class session for its grace period", logger.LoggerOptions{
			Key:  "enrollmentID",
			Data: enrollmentID,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return pipeline.Grace
	}
	if session == nil || session.GraceMinutes <= 0 {
		return pipeline.Grace
	}
	return time.Duration(session.GraceMinutes) * time.Minute
}

func (pipeline *AttendancePipeline) checkGeofence(ctx context.Context, ticket *eligibility.SessionTicket, location *eligibility.GeoPoint) (*Rejection, error) {
	zoneEntity, err := pipeline.Zones.FindZone(ctx, ticket.Faculty, ticket.LocationName)
	if err != nil {
		return nil, err
	}
	if zoneEntity == nil {
		return &Rejection{
			Kind:    RejectionLocationUnavailable,
			Message: fmt.Sprintf("%s is not a registered campus location", ticket.LocationName),
		}, nil
	}
	if location == nil {
		return &Rejection{
			Kind:    RejectionLocationUnavailable,
			Message: "your device location is required to record attendance here",
		}, nil
	}

	zone := eligibility.Zone{
		Center: eligibility.GeoPoint{
			Latitude:  zoneEntity.Latitude,
			Longitude: zoneEntity.Longitude,
		},
		RadiusMeters: zoneEntity.RadiusMeters,
	}
	inside, err := zone.Contains(*location)
	if err != nil {
		if errors.Is(err, eligibility.ErrIncompleteZone) {
			return &Rejection{
				Kind:    RejectionLocationUnavailable,
				Message: fmt.Sprintf("%s has no usable geofence configured", ticket.LocationName),
			}, nil
		}
		return nil, err
	}
	if !inside {
		return &Rejection{
			Kind:    RejectionOutsideGeofence,
			Message: fmt.Sprintf("you are outside the allowed area for %s", ticket.LocationName),
		}, nil
	}
	return nil, nil
}
