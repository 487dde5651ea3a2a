package types

import "image"

// LivenessSignal carries the per-frame cues used to decide whether a face is
// being presented live. Pointer fields are nil when the capture device could
// not produce the signal; an absent signal never fails the gate on its own.
type LivenessSignal struct {
	LeftEyeOpenProbability  *float64 `json:"leftEyeOpenProbability"`
	RightEyeOpenProbability *float64 `json:"rightEyeOpenProbability"`
	HeadYawDegrees          *float64 `json:"headYawDegrees"`
	HeadRollDegrees         *float64 `json:"headRollDegrees"`
}

// FaceObservation is the output of running detection on a single frame.
type FaceObservation struct {
	Bounds     image.Rectangle
	Confidence float32
	// 5 landmarks: right_eye, left_eye, nose, right_mouth, left_mouth
	Landmarks []image.Point
	Liveness  LivenessSignal
}

// ProcessingStats tracks detector throughput
type ProcessingStats struct {
	TotalRequests      int64
	SuccessfulRequests int64
	TotalTime          int64
	AverageTime        float64
}
