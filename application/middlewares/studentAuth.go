package middlewares

import (
	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/interfaces"
	auth_usecases "vericlass.io/application/usecases/auth"
)

func StudentAuthenticationMiddleware(ctx *interfaces.ApplicationContext[any], authToken string) (*interfaces.ApplicationContext[any], bool) {
	authResult := auth_usecases.IsStudentSignedIn(authToken, ctx.DeviceID)

	if !authResult.IsAuthenticated {
		apperrors.AuthenticationError(ctx.Ctx, authResult.ErrorMessage, ctx.DeviceID)
		return nil, false
	}

	ctx.SetContextData("StudentID", authResult.StudentID)
	ctx.SetContextData("MatricNumber", authResult.MatricNumber)
	ctx.SetContextData("FullName", authResult.FullName)
	ctx.SetContextData("DeviceID", authResult.DeviceID)

	return ctx, true
}
