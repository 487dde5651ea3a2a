package controller

import (
	"net/http"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/constants"
	"vericlass.io/application/controller/dto"
	"vericlass.io/application/eligibility"
	"vericlass.io/application/interfaces"
	attendance_usecases "vericlass.io/application/usecases/attendance"
	"vericlass.io/entities"
	server_response "vericlass.io/infrastructure/serverResponse"
	"vericlass.io/infrastructure/validator"
)

// ScanAttendance records attendance from a scanned session ticket
func ScanAttendance(ctx *interfaces.ApplicationContext[dto.ScanAttendanceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}

	var location *eligibility.GeoPoint
	if ctx.Body.Latitude != nil && ctx.Body.Longitude != nil {
		location = &eligibility.GeoPoint{
			Latitude:  *ctx.Body.Latitude,
			Longitude: *ctx.Body.Longitude,
		}
	}

	record := attendance_usecases.MarkAttendanceUseCase(ctx.Ctx, attendance_usecases.MarkAttendanceInput{
		Student: entities.Student{
			ID:           ctx.GetStringContextData("StudentID"),
			MatricNumber: ctx.GetStringContextData("MatricNumber"),
			FullName:     ctx.GetStringContextData("FullName"),
		},
		TicketPayload:         ctx.Body.Ticket,
		VerificationSessionID: ctx.Body.VerificationSessionID,
		Location:              location,
	}, ctx.DeviceID)
	if record == nil {
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "attendance recorded", record, nil, &constants.VERIFICATION_MATCHED, nil)
}

// FetchAttendanceHistory lists the caller's attendance records
func FetchAttendanceHistory(ctx *interfaces.ApplicationContext[any]) {
	limit := int64(50)
	records := attendance_usecases.FetchHistoryUseCase(ctx.Ctx, ctx.GetStringContextData("StudentID"), limit, ctx.DeviceID)
	if records == nil {
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attendance history", records, nil, nil, nil)
}
