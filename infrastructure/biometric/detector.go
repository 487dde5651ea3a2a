package biometric

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"sync"
	"time"

	"gocv.io/x/gocv"
	"vericlass.io/infrastructure/biometric/types"
	"vericlass.io/infrastructure/logger"
)

var (
	ErrNoFaceDetected = errors.New("no face detected in frame")
	ErrMultipleFaces  = errors.New("more than one face in frame")
)

// FaceDetector wraps a YuNet model and reports the single face in a frame
// together with pose signals estimated from its landmarks.
type FaceDetector struct {
	detector            gocv.FaceDetectorYN
	inputSize           image.Point
	confidenceThreshold float32
	nmsThreshold        float32
	topK                int
	modelsLoaded        bool
	processingStats     types.ProcessingStats
	mutex               sync.Mutex
}

// DetectorConfig holds configuration for the face detector
type DetectorConfig struct {
	ModelPath           string
	InputSize           image.Point
	ConfidenceThreshold float32
	NMSThreshold        float32
	TopK                int
}

// NewFaceDetector creates a new YuNet-backed face detector
func NewFaceDetector(config DetectorConfig) *FaceDetector {
	service := &FaceDetector{
		inputSize:           config.InputSize,
		confidenceThreshold: config.ConfidenceThreshold,
		nmsThreshold:        config.NMSThreshold,
		topK:                config.TopK,
	}

	if err := service.loadModel(config); err != nil {
		logger.Error("failed to load face detection model", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return service
	}

	service.modelsLoaded = true
	logger.Info("face detector initialized successfully")
	return service
}

func (fd *FaceDetector) loadModel(config DetectorConfig) error {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", config.ModelPath)
	}

	detector := gocv.NewFaceDetectorYN(
		config.ModelPath,
		"",
		image.Pt(config.InputSize.X, config.InputSize.Y),
	)
	detector.SetScoreThreshold(config.ConfidenceThreshold)
	detector.SetNMSThreshold(config.NMSThreshold)
	detector.SetTopK(config.TopK)

	fd.detector = detector
	return nil
}

// DetectFace returns the single face in the frame. A frame with no face is
// ErrNoFaceDetected and a frame with several is ErrMultipleFaces; only a
// frame holding exactly one face may proceed to verification.
func (fd *FaceDetector) DetectFace(img gocv.Mat) (*types.FaceObservation, error) {
	startTime := time.Now()

	if !fd.modelsLoaded {
		return nil, ErrModelUnavailable
	}
	if img.Empty() {
		return nil, ErrEmptyInput
	}

	fd.mutex.Lock()
	defer fd.mutex.Unlock()

	fd.detector.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	facesMat := gocv.NewMat()
	defer facesMat.Close()
	fd.detector.Detect(img, &facesMat)

	observations := fd.parseDetections(facesMat, img)
	fd.updateStats(time.Since(startTime), len(observations) > 0)

	if len(observations) == 0 {
		return nil, ErrNoFaceDetected
	}
	if len(observations) > 1 {
		return nil, ErrMultipleFaces
	}
	return &observations[0], nil
}

// parseDetections parses YuNet output rows. Each row carries 15 values:
// [x, y, w, h, x_re, y_re, x_le, y_le, x_nt, y_nt, x_rcm, y_rcm, x_lcm, y_lcm, score]
func (fd *FaceDetector) parseDetections(facesMat gocv.Mat, img gocv.Mat) []types.FaceObservation {
	var observations []types.FaceObservation

	if facesMat.Empty() || facesMat.Rows() == 0 {
		return observations
	}

	for i := 0; i < facesMat.Rows(); i++ {
		x := int(facesMat.GetFloatAt(i, 0))
		y := int(facesMat.GetFloatAt(i, 1))
		w := int(facesMat.GetFloatAt(i, 2))
		h := int(facesMat.GetFloatAt(i, 3))
		confidence := facesMat.GetFloatAt(i, 14)

		if x < 0 || y < 0 || x+w > img.Cols() || y+h > img.Rows() || w <= 0 || h <= 0 {
			continue
		}

		landmarks := []image.Point{
			{X: int(facesMat.GetFloatAt(i, 4)), Y: int(facesMat.GetFloatAt(i, 5))},   // right eye
			{X: int(facesMat.GetFloatAt(i, 6)), Y: int(facesMat.GetFloatAt(i, 7))},   // left eye
			{X: int(facesMat.GetFloatAt(i, 8)), Y: int(facesMat.GetFloatAt(i, 9))},   // nose tip
			{X: int(facesMat.GetFloatAt(i, 10)), Y: int(facesMat.GetFloatAt(i, 11))}, // right mouth corner
			{X: int(facesMat.GetFloatAt(i, 12)), Y: int(facesMat.GetFloatAt(i, 13))}, // left mouth corner
		}

		observations = append(observations, types.FaceObservation{
			Bounds:     image.Rect(x, y, x+w, y+h),
			Confidence: confidence,
			Landmarks:  landmarks,
			Liveness:   EstimatePose(landmarks),
		})
	}
	return observations
}

// EstimatePose derives head yaw and roll from the 5 YuNet landmarks. Both
// are rough estimates but good enough to reject a face turned well away from
// the camera. Eye-open probabilities cannot be derived from landmarks and
// are left unset.
func EstimatePose(landmarks []image.Point) types.LivenessSignal {
	if len(landmarks) < 3 {
		return types.LivenessSignal{}
	}

	rightEye := landmarks[0]
	leftEye := landmarks[1]
	nose := landmarks[2]

	dx := float64(leftEye.X - rightEye.X)
	dy := float64(leftEye.Y - rightEye.Y)
	eyeDistance := math.Sqrt(dx*dx + dy*dy)
	if eyeDistance == 0 {
		return types.LivenessSignal{}
	}

	roll := math.Atan2(dy, dx) * 180 / math.Pi

	// nose offset from the eye midline, as a fraction of half the eye span
	eyeMidX := float64(rightEye.X+leftEye.X) / 2
	offset := (float64(nose.X) - eyeMidX) / (eyeDistance / 2)
	offset = math.Max(-1, math.Min(1, offset))
	yaw := offset * 45

	return types.LivenessSignal{
		HeadYawDegrees:  &yaw,
		HeadRollDegrees: &roll,
	}
}

func (fd *FaceDetector) updateStats(processingTime time.Duration, success bool) {
	fd.processingStats.TotalRequests++
	if success {
		fd.processingStats.SuccessfulRequests++
	}
	fd.processingStats.TotalTime += processingTime.Milliseconds()
	fd.processingStats.AverageTime = float64(fd.processingStats.TotalTime) / float64(fd.processingStats.TotalRequests)
}

func (fd *FaceDetector) GetStats() types.ProcessingStats {
	fd.mutex.Lock()
	defer fd.mutex.Unlock()
	return fd.processingStats
}

func (fd *FaceDetector) IsHealthy() bool {
	return fd.modelsLoaded
}

// Close releases resources
func (fd *FaceDetector) Close() {
	if fd.modelsLoaded {
		fd.detector.Close()
		fd.modelsLoaded = false
	}
}

// GetDefaultDetectorConfig returns the default face detector configuration
func GetDefaultDetectorConfig() DetectorConfig {
	modelPath := os.Getenv("FACE_DETECTION_MODEL_PATH")
	if modelPath == "" {
		modelPath = "./models/yunet/face_detection_yunet_2023mar.onnx"
	}

	return DetectorConfig{
		ModelPath:           modelPath,
		InputSize:           image.Pt(320, 320),
		ConfidenceThreshold: 0.6,
		NMSThreshold:        0.3,
		TopK:                5000,
	}
}
