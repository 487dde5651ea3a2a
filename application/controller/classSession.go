package controller

import (
	"net/http"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"
	classsession_usecases "vericlass.io/application/usecases/classSession"
	"vericlass.io/entities"
	server_response "vericlass.io/infrastructure/serverResponse"
	"vericlass.io/infrastructure/validator"
)

// CreateClassSession registers a session that students can scan into
func CreateClassSession(ctx *interfaces.ApplicationContext[dto.CreateClassSessionDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}

	session := classsession_usecases.CreateSessionUseCase(ctx.Ctx, entities.ClassSession{
		Faculty:      ctx.Body.Faculty,
		Course:       ctx.Body.Course,
		Section:      ctx.Body.Section,
		SessionDate:  ctx.Body.SessionDate,
		StartTime:    ctx.Body.StartTime,
		EndTime:      ctx.Body.EndTime,
		GraceMinutes: ctx.Body.GraceMinutes,
		LocationName: ctx.Body.LocationName,
	}, ctx.DeviceID)
	if session == nil {
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "class session created", session, nil, nil, nil)
}

// GetClassSessionTicket returns the QR payload for a session
func GetClassSessionTicket(ctx *interfaces.ApplicationContext[any]) {
	sessionID, ok := ctx.GetContextData("ClassSessionID").(string)
	if !ok || sessionID == "" {
		apperrors.ClientError(ctx.Ctx, "missing session id", nil, nil, ctx.DeviceID)
		return
	}

	payload := classsession_usecases.GetSessionTicketUseCase(ctx.Ctx, sessionID, ctx.DeviceID)
	if payload == nil {
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "session ticket", map[string]any{
		"ticket": payload,
	}, nil, nil, nil)
}
