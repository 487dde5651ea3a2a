package auth_usecases

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/repository"
	"vericlass.io/entities"
	"vericlass.io/infrastructure/auth"
	"vericlass.io/infrastructure/logger"
)

// LoginStudentUseCase exchanges matric number and password for an access
// token. The same vague message covers both a missing account and a wrong
// password.
func LoginStudentUseCase(ctx any, matricNumber string, password string, deviceID string) (*string, *entities.Student) {
	studentRepo := repository.StudentRepo()
	student, err := studentRepo.FindOneByFilter(context.TODO(), map[string]interface{}{
		"matricNumber": matricNumber,
	})
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil, nil
	}
	if student == nil || student.Deactivated {
		apperrors.AuthenticationError(ctx, "invalid matric number or password", deviceID)
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		logger.Warning("failed login attempt", logger.LoggerOptions{
			Key:  "matricNumber",
			Data: matricNumber,
		})
		apperrors.AuthenticationError(ctx, "invalid matric number or password", deviceID)
		return nil, nil
	}

	now := time.Now()
	token, err := auth.GenerateAuthToken(auth.ClaimsData{
		StudentID:    student.ID,
		MatricNumber: student.MatricNumber,
		FullName:     student.FullName,
		DeviceID:     deviceID,
		TokenType:    "access_token",
		IssuedAt:     now.Unix(),
		ExpiresAt:    now.Add(12 * time.Hour).Unix(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx, err, deviceID)
		return nil, nil
	}
	return token, student
}
