package auth_usecases

import (
	"os"

	"github.com/golang-jwt/jwt/v4"
	"vericlass.io/infrastructure/auth"
	"vericlass.io/infrastructure/logger"
)

// StudentAuthResult represents the result of student authentication
type StudentAuthResult struct {
	IsAuthenticated bool
	StudentID       string
	MatricNumber    string
	FullName        string
	DeviceID        string
	ErrorMessage    string
}

// IsStudentSignedIn validates the access token presented with a request.
func IsStudentSignedIn(authToken string, deviceID string) StudentAuthResult {
	result := StudentAuthResult{}

	if authToken == "" {
		result.ErrorMessage = "missing auth token"
		return result
	}

	validAccessToken, err := auth.DecodeAuthToken(authToken)
	if err != nil {
		result.ErrorMessage = "this session has expired"
		return result
	}

	authTokenClaims, ok := validAccessToken.Claims.(jwt.MapClaims)
	if !ok {
		result.ErrorMessage = "unauthorised access"
		return result
	}

	if authTokenClaims["iss"] != os.Getenv("JWT_ISSUER") {
		logger.Warning("attempt to access account with tampered jwt", logger.LoggerOptions{
			Key:  "token claims",
			Data: authTokenClaims,
		})
		result.ErrorMessage = "unauthorised access"
		return result
	}

	if deviceID != "" && authTokenClaims["deviceID"] != deviceID {
		logger.Warning("client made request using device id different from that in access token", logger.LoggerOptions{
			Key:  "token device id",
			Data: authTokenClaims["deviceID"],
		}, logger.LoggerOptions{
			Key:  "request device id",
			Data: deviceID,
		})
		result.ErrorMessage = "unauthorized access"
		return result
	}

	if authTokenClaims["tokenType"] != "access_token" {
		result.ErrorMessage = "unauthorised access"
		return result
	}

	result.IsAuthenticated = true
	result.StudentID, _ = authTokenClaims["studentID"].(string)
	result.MatricNumber, _ = authTokenClaims["matricNumber"].(string)
	result.FullName, _ = authTokenClaims["fullName"].(string)
	result.DeviceID, _ = authTokenClaims["deviceID"].(string)
	return result
}
