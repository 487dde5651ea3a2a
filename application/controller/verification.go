package controller

import (
	"net/http"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"
	verification_usecases "vericlass.io/application/usecases/verification"
	"vericlass.io/application/utils"
	"vericlass.io/infrastructure/biometric"
	server_response "vericlass.io/infrastructure/serverResponse"
	"vericlass.io/infrastructure/validator"
)

// StartVerificationSession opens a face verification session for the caller
func StartVerificationSession(ctx *interfaces.ApplicationContext[any]) {
	snapshot := verification_usecases.StartSessionUseCase(ctx.Ctx, ctx.GetStringContextData("StudentID"), ctx.DeviceID)
	if snapshot == nil {
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "verification session started", snapshot, nil, nil, nil)
}

// SubmitVerificationFrame feeds one camera frame to a running session
func SubmitVerificationFrame(ctx *interfaces.ApplicationContext[dto.SubmitFrameDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}

	sessionID, ok := ctx.GetContextData("SessionID").(string)
	if !ok || sessionID == "" {
		apperrors.ClientError(ctx.Ctx, "missing session id", nil, nil, ctx.DeviceID)
		return
	}

	imageBytes, err := utils.DecodeBase64Image(ctx.Body.Image)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil, nil, ctx.DeviceID)
		return
	}

	snapshot, accepted := verification_usecases.SubmitFrameUseCase(ctx.Ctx, sessionID, ctx.GetStringContextData("StudentID"), biometric.Frame{
		Image:    imageBytes,
		Liveness: ctx.Body.Liveness,
	}, ctx.DeviceID)
	if snapshot == nil {
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "frame received", map[string]any{
		"accepted": accepted,
		"session":  snapshot,
	}, nil, nil, nil)
}

// GetVerificationSession reports the current state of a session
func GetVerificationSession(ctx *interfaces.ApplicationContext[any]) {
	sessionID, ok := ctx.GetContextData("SessionID").(string)
	if !ok || sessionID == "" {
		apperrors.ClientError(ctx.Ctx, "missing session id", nil, nil, ctx.DeviceID)
		return
	}

	snapshot := verification_usecases.GetSessionUseCase(ctx.Ctx, sessionID, ctx.GetStringContextData("StudentID"), ctx.DeviceID)
	if snapshot == nil {
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification session", snapshot, nil, nil, nil)
}
