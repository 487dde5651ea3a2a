package biometric

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
	"vericlass.io/infrastructure/logger"
)

var (
	ErrModelUnavailable = errors.New("embedding model not loaded")
	ErrEmptyInput       = errors.New("empty face image")
)

// FaceEmbeddingExtractor produces L2-normalized face embeddings from an
// SFace-style ONNX model.
type FaceEmbeddingExtractor struct {
	net          gocv.Net
	inputSize    image.Point
	outputSize   int
	modelName    string
	modelsLoaded bool
	mutex        sync.RWMutex
}

// ExtractorConfig holds configuration for the embedding model
type ExtractorConfig struct {
	ModelPath  string
	ModelName  string
	InputSize  image.Point
	OutputSize int
	Backend    gocv.NetBackendType
	Target     gocv.NetTargetType
}

// NewFaceEmbeddingExtractor creates a new embedding extractor
func NewFaceEmbeddingExtractor(config ExtractorConfig) *FaceEmbeddingExtractor {
	extractor := &FaceEmbeddingExtractor{
		inputSize:  config.InputSize,
		outputSize: config.OutputSize,
		modelName:  config.ModelName,
	}

	if err := extractor.loadModel(config); err != nil {
		logger.Error("failed to load embedding model", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return extractor
	}

	extractor.modelsLoaded = true
	logger.Info("embedding extractor initialized successfully", logger.LoggerOptions{
		Key: "config",
		Data: map[string]interface{}{
			"model_path": config.ModelPath,
			"input_size": fmt.Sprintf("%dx%d", config.InputSize.X, config.InputSize.Y),
			"dimensions": config.OutputSize,
		},
	})

	return extractor
}

func (fe *FaceEmbeddingExtractor) loadModel(config ExtractorConfig) error {
	if _, err := os.Stat(config.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", config.ModelPath)
	}

	fe.net = gocv.ReadNet(config.ModelPath, "")
	if fe.net.Empty() {
		return fmt.Errorf("failed to load embedding model from %s", config.ModelPath)
	}

	fe.net.SetPreferableBackend(config.Backend)
	fe.net.SetPreferableTarget(config.Target)
	return nil
}

// ModelName identifies the model that produced an embedding. Stored beside
// reference vectors so embeddings from different models never get compared.
func (fe *FaceEmbeddingExtractor) ModelName() string {
	return fe.modelName
}

func (fe *FaceEmbeddingExtractor) Dimensions() int {
	return fe.outputSize
}

// ExtractEmbedding extracts a face embedding from a cropped face image
func (fe *FaceEmbeddingExtractor) ExtractEmbedding(face gocv.Mat) ([]float32, error) {
	fe.mutex.RLock()
	defer fe.mutex.RUnlock()

	if !fe.modelsLoaded {
		return nil, ErrModelUnavailable
	}
	if face.Empty() {
		return nil, ErrEmptyInput
	}

	preprocessed := fe.preprocessFace(face)
	defer preprocessed.Close()

	// SFace expects [1, 3, 112, 112] with pixels mapped from [0,255] to [-1,1]
	blob := gocv.BlobFromImage(
		preprocessed,
		1.0/127.5,
		fe.inputSize,
		gocv.NewScalar(127.5, 127.5, 127.5, 0),
		true,
		false,
	)
	defer blob.Close()

	fe.net.SetInput(blob, "")
	output := fe.net.Forward("")
	defer output.Close()

	embedding := make([]float32, fe.outputSize)
	for i := 0; i < fe.outputSize; i++ {
		embedding[i] = output.GetFloatAt(0, i)
	}

	return normalizeEmbedding(embedding), nil
}

func (fe *FaceEmbeddingExtractor) preprocessFace(face gocv.Mat) gocv.Mat {
	resized := gocv.NewMat()
	gocv.Resize(face, &resized, fe.inputSize, 0, 0, gocv.InterpolationLinear)

	if resized.Channels() == 1 {
		rgb := gocv.NewMat()
		gocv.CvtColor(resized, &rgb, gocv.ColorGrayToBGR)
		resized.Close()
		return rgb
	}
	return resized
}

func (fe *FaceEmbeddingExtractor) IsHealthy() bool {
	fe.mutex.RLock()
	defer fe.mutex.RUnlock()
	return fe.modelsLoaded
}

// Close releases resources
func (fe *FaceEmbeddingExtractor) Close() error {
	fe.mutex.Lock()
	defer fe.mutex.Unlock()

	if !fe.net.Empty() {
		if err := fe.net.Close(); err != nil {
			return fmt.Errorf("failed to close embedding network: %v", err)
		}
	}

	fe.modelsLoaded = false
	logger.Info("embedding extractor closed")
	return nil
}

// GetDefaultExtractorConfig returns the default embedding model configuration
func GetDefaultExtractorConfig() ExtractorConfig {
	modelPath := os.Getenv("FACE_EMBEDDING_MODEL_PATH")
	if modelPath == "" {
		modelPath = "./models/sface/face_recognition_sface_2021dec.onnx"
	}

	return ExtractorConfig{
		ModelPath:  modelPath,
		ModelName:  "sface-2021dec",
		InputSize:  image.Pt(112, 112),
		OutputSize: 128,
		Backend:    gocv.NetBackendDefault,
		Target:     gocv.NetTargetCPU,
	}
}
