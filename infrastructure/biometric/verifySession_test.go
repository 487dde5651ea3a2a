package biometric

import (
	"image"
	"sync"
	"testing"
	"time"

	"vericlass.io/application/utils"
	"vericlass.io/infrastructure/biometric/types"
)

type fakeAnalyzer struct {
	mutex       sync.Mutex
	frames      []Frame
	extractions int
	detect      func(frame Frame) (*types.FaceObservation, error)
	extract     func(frame Frame) ([]float32, error)
	block       chan struct{}
}

func (fa *fakeAnalyzer) DetectFace(frame Frame) (*types.FaceObservation, error) {
	if fa.block != nil {
		<-fa.block
	}
	fa.mutex.Lock()
	fa.frames = append(fa.frames, frame)
	fa.mutex.Unlock()
	if fa.detect != nil {
		return fa.detect(frame)
	}
	return plainObservation(), nil
}

func (fa *fakeAnalyzer) ExtractEmbedding(frame Frame, _ *types.FaceObservation) ([]float32, error) {
	fa.mutex.Lock()
	fa.extractions++
	fa.mutex.Unlock()
	return fa.extract(frame)
}

func (fa *fakeAnalyzer) analyzed() []Frame {
	fa.mutex.Lock()
	defer fa.mutex.Unlock()
	return append([]Frame{}, fa.frames...)
}

func (fa *fakeAnalyzer) extracted() int {
	fa.mutex.Lock()
	defer fa.mutex.Unlock()
	return fa.extractions
}

func plainObservation() *types.FaceObservation {
	return &types.FaceObservation{Bounds: image.Rect(10, 10, 110, 110), Confidence: 0.95}
}

func waitForState(t *testing.T, session *VerificationSession, state SessionState) SessionSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snapshot := session.Snapshot()
		if snapshot.State == state {
			return snapshot
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached state %s, stuck at %s", state, session.Snapshot().State)
	return SessionSnapshot{}
}

func sessionConfig(reference []float32) VerificationSessionConfig {
	return VerificationSessionConfig{
		ID:             "ver_test",
		StudentID:      "stu_test",
		Reference:      reference,
		MatchThreshold: 0.8,
		MaxAttempts:    3,
		TTL:            5 * time.Second,
	}
}

func TestVerificationSession(t *testing.T) {
	reference := []float32{1, 0, 0}

	t.Run("matching frame reaches the matched state", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		if !session.SubmitFrame(Frame{Image: []byte("frame")}) {
			t.Fatal("expected the first frame to be accepted")
		}
		snapshot := waitForState(t, session, StateMatched)
		if snapshot.MatchedAt == nil {
			t.Error("expected MatchedAt to be set")
		}
		if snapshot.LastSimilarity < 0.99 {
			t.Errorf("expected similarity near 1, got %f", snapshot.LastSimilarity)
		}
	})

	t.Run("frames after a match are rejected", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		waitForState(t, session, StateMatched)

		if session.SubmitFrame(Frame{Image: []byte("late")}) {
			t.Error("expected a frame after the match to be rejected")
		}
	})

	t.Run("similarity exactly on the threshold stays a mismatch", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		config := sessionConfig(reference)
		// an identical embedding scores exactly 1.0
		config.MatchThreshold = 1.0
		session := NewVerificationSession(config, analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if session.Snapshot().Attempts == 1 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		snapshot := waitForState(t, session, StateAwaitingFrame)
		if snapshot.Attempts != 1 {
			t.Errorf("expected the comparison to count one attempt, got %d", snapshot.Attempts)
		}
		if snapshot.MatchedAt != nil {
			t.Error("expected no match on a threshold tie")
		}
	})

	t.Run("mismatch counts an attempt and returns to awaiting", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{0, 1, 0}, nil
		}}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if session.Snapshot().Attempts == 1 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		snapshot := waitForState(t, session, StateAwaitingFrame)
		if snapshot.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", snapshot.Attempts)
		}
		if snapshot.LastReason == "" {
			t.Error("expected a reason for the mismatch")
		}
	})

	t.Run("exhausting attempts fails the session", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{0, 1, 0}, nil
		}}
		config := sessionConfig(reference)
		config.MaxAttempts = 2
		session := NewVerificationSession(config, analyzer, DefaultLivenessGate())
		defer session.Close()

		for i := 0; i < 2; i++ {
			deadline := time.Now().Add(2 * time.Second)
			for !session.SubmitFrame(Frame{Image: []byte("frame")}) && time.Now().Before(deadline) {
				if session.IsTerminal() {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}
			deadline = time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				snapshot := session.Snapshot()
				if snapshot.Attempts > i || snapshot.State == StateFailed {
					break
				}
				time.Sleep(5 * time.Millisecond)
			}
		}
		snapshot := waitForState(t, session, StateFailed)
		if snapshot.Attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", snapshot.Attempts)
		}
	})

	t.Run("liveness rejection skips extraction and costs no attempt", func(t *testing.T) {
		analyzer := &fakeAnalyzer{
			detect: func(Frame) (*types.FaceObservation, error) {
				observation := plainObservation()
				observation.Liveness.LeftEyeOpenProbability = utils.GetFloat64Pointer(0.05)
				return observation, nil
			},
			extract: func(Frame) ([]float32, error) {
				return []float32{1, 0, 0}, nil
			},
		}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if session.Snapshot().LastReason != "" {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		snapshot := waitForState(t, session, StateAwaitingFrame)
		if snapshot.Attempts != 0 {
			t.Errorf("expected no attempts consumed, got %d", snapshot.Attempts)
		}
		if snapshot.LastReason == "" {
			t.Error("expected the liveness reason to be recorded")
		}
		if analyzer.extracted() != 0 {
			t.Errorf("expected no embedding extraction for a non-live frame, got %d", analyzer.extracted())
		}
	})

	t.Run("frame without a face does not count an attempt", func(t *testing.T) {
		analyzer := &fakeAnalyzer{detect: func(Frame) (*types.FaceObservation, error) {
			return nil, ErrNoFaceDetected
		}}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if session.Snapshot().LastReason != "" {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		snapshot := waitForState(t, session, StateAwaitingFrame)
		if snapshot.Attempts != 0 {
			t.Errorf("expected no attempts consumed, got %d", snapshot.Attempts)
		}
	})

	t.Run("frame with several faces does not count an attempt", func(t *testing.T) {
		analyzer := &fakeAnalyzer{detect: func(Frame) (*types.FaceObservation, error) {
			return nil, ErrMultipleFaces
		}}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if session.Snapshot().LastReason != "" {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}
		snapshot := waitForState(t, session, StateAwaitingFrame)
		if snapshot.Attempts != 0 {
			t.Errorf("expected no attempts consumed, got %d", snapshot.Attempts)
		}
		if snapshot.LastReason != ErrMultipleFaces.Error() {
			t.Errorf("expected the multi-face reason to surface, got %q", snapshot.LastReason)
		}
		if analyzer.extracted() != 0 {
			t.Errorf("expected no extraction on a multi-face frame, got %d", analyzer.extracted())
		}
	})

	t.Run("dimension mismatch fails the session outright", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{1, 0}, nil
		}}
		session := NewVerificationSession(sessionConfig(reference), analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("frame")})
		waitForState(t, session, StateFailed)
	})

	t.Run("session expires without frames", func(t *testing.T) {
		analyzer := &fakeAnalyzer{extract: func(Frame) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}}
		config := sessionConfig(reference)
		config.TTL = 30 * time.Millisecond
		session := NewVerificationSession(config, analyzer, DefaultLivenessGate())
		defer session.Close()

		waitForState(t, session, StateExpired)
		if session.SubmitFrame(Frame{Image: []byte("late")}) {
			t.Error("expected a frame after expiry to be rejected")
		}
	})

	t.Run("only the newest pending frame survives backpressure", func(t *testing.T) {
		release := make(chan struct{})
		analyzer := &fakeAnalyzer{
			block: release,
			extract: func(Frame) ([]float32, error) {
				return []float32{0, 1, 0}, nil
			},
		}
		config := sessionConfig(reference)
		config.MaxAttempts = 10
		session := NewVerificationSession(config, analyzer, DefaultLivenessGate())
		defer session.Close()

		session.SubmitFrame(Frame{Image: []byte("first")})
		// give the worker a moment to pick the first frame up
		time.Sleep(20 * time.Millisecond)
		session.SubmitFrame(Frame{Image: []byte("second")})
		session.SubmitFrame(Frame{Image: []byte("third")})

		release <- struct{}{}
		release <- struct{}{}

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if len(analyzer.analyzed()) == 2 {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}

		frames := analyzer.analyzed()
		if len(frames) != 2 {
			t.Fatalf("expected 2 analyzed frames, got %d", len(frames))
		}
		if string(frames[0].Image) != "first" || string(frames[1].Image) != "third" {
			t.Errorf("expected the stale frame to be dropped, analyzed %q then %q", frames[0].Image, frames[1].Image)
		}
	})
}
