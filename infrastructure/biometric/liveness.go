package biometric

import (
	"fmt"
	"math"

	"vericlass.io/infrastructure/biometric/types"
)

// LivenessGate screens frames before any embedding work happens. Each signal
// is only enforced when the capture side managed to produce it; a frame with
// no signals at all passes.
type LivenessGate struct {
	EyeOpenThreshold float64
	MaxHeadAngle     float64
}

type LivenessResult struct {
	Passed bool
	Reason string
}

func DefaultLivenessGate() LivenessGate {
	return LivenessGate{
		EyeOpenThreshold: 0.15,
		MaxHeadAngle:     30,
	}
}

// Check evaluates every available signal and fails on the first violation.
func (gate LivenessGate) Check(signal types.LivenessSignal) LivenessResult {
	if signal.LeftEyeOpenProbability != nil && *signal.LeftEyeOpenProbability <= gate.EyeOpenThreshold {
		return LivenessResult{Reason: fmt.Sprintf("left eye open probability %.2f below threshold", *signal.LeftEyeOpenProbability)}
	}
	if signal.RightEyeOpenProbability != nil && *signal.RightEyeOpenProbability <= gate.EyeOpenThreshold {
		return LivenessResult{Reason: fmt.Sprintf("right eye open probability %.2f below threshold", *signal.RightEyeOpenProbability)}
	}
	if signal.HeadYawDegrees != nil && math.Abs(*signal.HeadYawDegrees) >= gate.MaxHeadAngle {
		return LivenessResult{Reason: fmt.Sprintf("head yaw %.1f° outside frontal range", *signal.HeadYawDegrees)}
	}
	if signal.HeadRollDegrees != nil && math.Abs(*signal.HeadRollDegrees) >= gate.MaxHeadAngle {
		return LivenessResult{Reason: fmt.Sprintf("head roll %.1f° outside frontal range", *signal.HeadRollDegrees)}
	}
	return LivenessResult{Passed: true}
}
