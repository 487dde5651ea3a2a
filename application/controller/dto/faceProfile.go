package dto

import "vericlass.io/infrastructure/biometric/types"

type EnrollFaceProfileDTO struct {
	// base64 encoded image, with or without a data URL prefix
	Image    string               `json:"image" validate:"required"`
	Liveness types.LivenessSignal `json:"liveness"`
}
