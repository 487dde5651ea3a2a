package controller

import (
	"net/http"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"
	faceprofile_usecases "vericlass.io/application/usecases/faceProfile"
	"vericlass.io/application/utils"
	server_response "vericlass.io/infrastructure/serverResponse"
	"vericlass.io/infrastructure/validator"
)

// EnrollFaceProfile stores or replaces the caller's reference embedding
func EnrollFaceProfile(ctx *interfaces.ApplicationContext[dto.EnrollFaceProfileDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}

	imageBytes, err := utils.DecodeBase64Image(ctx.Body.Image)
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil, nil, ctx.DeviceID)
		return
	}

	profile := faceprofile_usecases.EnrollFaceProfileUseCase(ctx.Ctx, ctx.GetStringContextData("StudentID"), imageBytes, ctx.Body.Liveness, ctx.DeviceID)
	if profile == nil {
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "face profile enrolled", map[string]any{
		"id":        profile.ID,
		"dimension": profile.Dimension,
		"modelName": profile.ModelName,
	}, nil, nil, nil)
}
