package dto

import "vericlass.io/infrastructure/biometric/types"

type SubmitFrameDTO struct {
	// base64 encoded frame, with or without a data URL prefix
	Image string `json:"image" validate:"required"`
	// optional signals measured by the capture device, eye-open
	// probabilities in particular cannot be derived server side
	Liveness types.LivenessSignal `json:"liveness"`
}
