package biometric

import (
	"sync"

	"gocv.io/x/gocv"
	"vericlass.io/application/utils"
	"vericlass.io/infrastructure/biometric/types"
	"vericlass.io/infrastructure/logger"
)

// BiometricService ties the detector, the embedding extractor and the
// liveness gate together behind the FrameAnalyzer interface.
type BiometricService struct {
	detector  *FaceDetector
	extractor *FaceEmbeddingExtractor
	gate      LivenessGate
}

var (
	service     *BiometricService
	serviceOnce sync.Once
)

// InitializeBiometricService loads the detection and embedding models once.
func InitializeBiometricService() *BiometricService {
	serviceOnce.Do(func() {
		gate := DefaultLivenessGate()
		gate.EyeOpenThreshold = utils.GetEnvFloat("LIVENESS_EYE_OPEN_THRESHOLD", gate.EyeOpenThreshold)
		gate.MaxHeadAngle = utils.GetEnvFloat("LIVENESS_MAX_HEAD_ANGLE", gate.MaxHeadAngle)

		service = &BiometricService{
			detector:  NewFaceDetector(GetDefaultDetectorConfig()),
			extractor: NewFaceEmbeddingExtractor(GetDefaultExtractorConfig()),
			gate:      gate,
		}
		logger.Info("biometric service initialized")
	})
	return service
}

// Service returns the initialized biometric service.
func Service() *BiometricService {
	return InitializeBiometricService()
}

func (bs *BiometricService) Gate() LivenessGate {
	return bs.gate
}

func (bs *BiometricService) ModelName() string {
	return bs.extractor.ModelName()
}

func (bs *BiometricService) IsHealthy() bool {
	return bs.detector.IsHealthy() && bs.extractor.IsHealthy()
}

// DetectFace implements FrameAnalyzer. It decodes the frame, requires
// exactly one face in it and merges the client-reported liveness signals
// over the landmark-derived ones.
func (bs *BiometricService) DetectFace(frame Frame) (*types.FaceObservation, error) {
	img, err := gocv.IMDecode(frame.Image, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	if img.Empty() {
		return nil, ErrEmptyInput
	}

	observation, err := bs.detector.DetectFace(img)
	if err != nil {
		return nil, err
	}
	observation.Liveness = mergeLiveness(observation.Liveness, frame.Liveness)
	return observation, nil
}

// ExtractEmbedding implements FrameAnalyzer. It crops the observed face out
// of the frame and runs the embedding model on the crop.
func (bs *BiometricService) ExtractEmbedding(frame Frame, observation *types.FaceObservation) ([]float32, error) {
	img, err := gocv.IMDecode(frame.Image, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	if img.Empty() {
		return nil, ErrEmptyInput
	}

	faceRegion := img.Region(observation.Bounds)
	defer faceRegion.Close()

	return bs.extractor.ExtractEmbedding(faceRegion)
}

// ExtractReferenceEmbedding runs the enrollment path: the image must hold
// exactly one face that clears the liveness gate before its embedding is
// accepted as a reference.
func (bs *BiometricService) ExtractReferenceEmbedding(imageBytes []byte, reported types.LivenessSignal) ([]float32, error) {
	frame := Frame{Image: imageBytes, Liveness: reported}
	observation, err := bs.DetectFace(frame)
	if err != nil {
		return nil, err
	}
	if result := bs.gate.Check(observation.Liveness); !result.Passed {
		return nil, &LivenessError{Reason: result.Reason}
	}
	return bs.ExtractEmbedding(frame, observation)
}

// Close releases both models.
func (bs *BiometricService) Close() {
	bs.detector.Close()
	bs.extractor.Close()
}

// mergeLiveness prefers what the capture device measured directly over what
// was estimated from landmarks.
func mergeLiveness(estimated types.LivenessSignal, reported types.LivenessSignal) types.LivenessSignal {
	merged := estimated
	if reported.LeftEyeOpenProbability != nil {
		merged.LeftEyeOpenProbability = reported.LeftEyeOpenProbability
	}
	if reported.RightEyeOpenProbability != nil {
		merged.RightEyeOpenProbability = reported.RightEyeOpenProbability
	}
	if reported.HeadYawDegrees != nil {
		merged.HeadYawDegrees = reported.HeadYawDegrees
	}
	if reported.HeadRollDegrees != nil {
		merged.HeadRollDegrees = reported.HeadRollDegrees
	}
	return merged
}

// LivenessError reports a frame rejected by the liveness gate.
type LivenessError struct {
	Reason string
}

func (e *LivenessError) Error() string {
	return "liveness check failed: " + e.Reason
}
