package classsession_usecases

import (
	"context"
	"fmt"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/eligibility"
	"vericlass.io/application/repository"
	"vericlass.io/application/utils"
	"vericlass.io/entities"
	"vericlass.io/infrastructure/validator"
)

// CreateSessionUseCase registers a class session and mints its enrollment id.
func CreateSessionUseCase(ctx any, session entities.ClassSession, deviceID string) *entities.ClassSession {
	if session.GraceMinutes <= 0 {
		session.GraceMinutes = eligibility.DefaultGraceMinutes
	}
	session.EnrollmentID = fmt.Sprintf("enr_%s", utils.GenerateULIDString())

	created, err := repository.ClassSessionRepo().CreateOne(context.TODO(), session)
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}
	return created
}

// GetSessionTicketUseCase renders the QR payload for a session.
func GetSessionTicketUseCase(ctx any, sessionID string, deviceID string) *string {
	session, err := repository.ClassSessionRepo().FindByID(context.TODO(), sessionID)
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}
	if session == nil {
		apperrors.NotFoundError(ctx, "class session not found", &deviceID)
		return nil
	}

	timeRange := fmt.Sprintf("%s - %s", session.StartTime, session.EndTime)
	// stored sessions may predate the clock validation on creation; never
	// issue a ticket students cannot redeem
	if err := validator.ValidatorInstance.ValidateValue(timeRange, "timerange"); err != nil {
		apperrors.CustomError(ctx, "this session carries an unusable schedule. recreate it.", nil, deviceID)
		return nil
	}

	payload := eligibility.FormatQRPayload(eligibility.SessionTicket{
		Faculty:      session.Faculty,
		Course:       session.Course,
		Section:      session.Section,
		TimeRange:    timeRange,
		EnrollmentID: session.EnrollmentID,
		LocationName: session.LocationName,
	})
	return &payload
}
