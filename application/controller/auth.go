package controller

import (
	"net/http"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/interfaces"
	auth_usecases "vericlass.io/application/usecases/auth"
	server_response "vericlass.io/infrastructure/serverResponse"
	"vericlass.io/infrastructure/validator"
)

func LoginStudent(ctx *interfaces.ApplicationContext[dto.LoginStudentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}

	token, student := auth_usecases.LoginStudentUseCase(ctx.Ctx, ctx.Body.MatricNumber, ctx.Body.Password, ctx.DeviceID)
	if token == nil {
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "login successful", map[string]any{
		"accessToken": token,
		"student":     student,
	}, nil, nil, nil)
}
