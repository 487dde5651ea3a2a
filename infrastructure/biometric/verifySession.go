package biometric

import (
	"sync"
	"time"

	"vericlass.io/infrastructure/biometric/types"
	"vericlass.io/infrastructure/logger"
)

type SessionState string

const (
	StateAwaitingFrame SessionState = "awaiting_frame"
	StateFaceDetected  SessionState = "face_detected"
	StateExtracting    SessionState = "extracting"
	StateComparing     SessionState = "comparing"
	StateMatched       SessionState = "matched"
	StateFailed        SessionState = "failed"
	StateExpired       SessionState = "expired"
)

// Frame is one capture submitted to a verification session. The liveness
// signal carries whatever the capture side could measure; the analyzer fills
// in the rest from landmarks.
type Frame struct {
	Image    []byte
	Liveness types.LivenessSignal
}

// FrameAnalyzer runs detection and embedding extraction on a single frame.
// Extraction is a separate step so the session can gate it on liveness and
// never spend inference on a frame that already failed.
type FrameAnalyzer interface {
	DetectFace(frame Frame) (*types.FaceObservation, error)
	ExtractEmbedding(frame Frame, observation *types.FaceObservation) ([]float32, error)
}

// VerificationSessionConfig configures one verification attempt lifecycle.
type VerificationSessionConfig struct {
	ID             string
	StudentID      string
	Reference      []float32
	MatchThreshold float64
	MaxAttempts    int
	TTL            time.Duration
}

// VerificationSession drives face verification over a stream of frames.
// Frames are processed strictly one at a time by a single worker; while the
// worker is busy only the newest pending frame is kept, the stale one is
// dropped. A match is terminal and every frame after it is ignored.
type VerificationSession struct {
	config   VerificationSessionConfig
	analyzer FrameAnalyzer
	gate     LivenessGate

	mailbox     chan Frame
	done        chan struct{}
	closeOnce   sync.Once
	expiryTimer *time.Timer

	mutex          sync.RWMutex
	state          SessionState
	attempts       int
	lastSimilarity float64
	lastReason     string
	matchedAt      *time.Time
	expiresAt      time.Time
}

// SessionSnapshot is a point-in-time view of a session for status queries.
type SessionSnapshot struct {
	ID             string       `json:"id"`
	StudentID      string       `json:"studentID"`
	State          SessionState `json:"state"`
	Attempts       int          `json:"attempts"`
	LastSimilarity float64      `json:"lastSimilarity"`
	LastReason     string       `json:"lastReason,omitempty"`
	MatchedAt      *time.Time   `json:"matchedAt,omitempty"`
	ExpiresAt      time.Time    `json:"expiresAt"`
}

// NewVerificationSession starts the session worker and expiry timer.
func NewVerificationSession(config VerificationSessionConfig, analyzer FrameAnalyzer, gate LivenessGate) *VerificationSession {
	session := &VerificationSession{
		config:    config,
		analyzer:  analyzer,
		gate:      gate,
		mailbox:   make(chan Frame, 1),
		done:      make(chan struct{}),
		state:     StateAwaitingFrame,
		expiresAt: time.Now().Add(config.TTL),
	}
	session.expiryTimer = time.AfterFunc(config.TTL, session.expire)

	go session.run()
	return session
}

// SubmitFrame hands a frame to the session worker without blocking. When a
// frame is already queued it is replaced by the newer one. Returns false
// once the session has reached a terminal state.
func (session *VerificationSession) SubmitFrame(frame Frame) bool {
	if session.IsTerminal() {
		return false
	}

	select {
	case session.mailbox <- frame:
		return true
	default:
	}

	// drop the stale pending frame in favour of the newest capture
	select {
	case <-session.mailbox:
	default:
	}
	select {
	case session.mailbox <- frame:
		return true
	default:
		return false
	}
}

func (session *VerificationSession) run() {
	for {
		select {
		case <-session.done:
			return
		case frame := <-session.mailbox:
			session.process(frame)
		}
	}
}

func (session *VerificationSession) process(frame Frame) {
	if session.IsTerminal() {
		return
	}

	observation, err := session.analyzer.DetectFace(frame)
	if err != nil {
		// zero or several faces in the frame cost no attempt
		session.recordMiss(err.Error(), 0, false)
		return
	}

	session.setState(StateFaceDetected)
	if result := session.gate.Check(observation.Liveness); !result.Passed {
		session.recordMiss(result.Reason, 0, false)
		return
	}

	session.setState(StateExtracting)
	embedding, err := session.analyzer.ExtractEmbedding(frame, observation)
	if err != nil {
		session.recordMiss(err.Error(), 0, false)
		return
	}

	session.setState(StateComparing)
	similarity, err := CosineSimilarity(embedding, session.config.Reference)
	if err != nil {
		// a dimension mismatch will never resolve itself on retry
		session.terminate(StateFailed, err.Error())
		return
	}

	// a similarity exactly on the threshold is still a mismatch
	if similarity > session.config.MatchThreshold {
		session.match(similarity)
		return
	}
	session.recordMiss("face did not match the enrolled profile", similarity, true)
}

func (session *VerificationSession) match(similarity float64) {
	session.mutex.Lock()
	now := time.Now()
	session.state = StateMatched
	session.lastSimilarity = similarity
	session.lastReason = ""
	session.matchedAt = &now
	session.mutex.Unlock()

	logger.Info("verification session matched", logger.LoggerOptions{
		Key:  "sessionID",
		Data: session.config.ID,
	}, logger.LoggerOptions{
		Key:  "similarity",
		Data: similarity,
	})
	session.stop()
}

// recordMiss returns the session to AwaitingFrame, or fails it outright when
// a counted attempt exhausts the budget. Only completed comparisons count as
// attempts; frames with no usable face cost nothing.
func (session *VerificationSession) recordMiss(reason string, similarity float64, countAttempt bool) {
	session.mutex.Lock()
	session.lastReason = reason
	session.lastSimilarity = similarity
	if countAttempt {
		session.attempts++
		if session.config.MaxAttempts > 0 && session.attempts >= session.config.MaxAttempts {
			session.state = StateFailed
			session.mutex.Unlock()
			session.stop()
			return
		}
	}
	session.state = StateAwaitingFrame
	session.mutex.Unlock()
}

func (session *VerificationSession) terminate(state SessionState, reason string) {
	session.mutex.Lock()
	session.state = state
	session.lastReason = reason
	session.mutex.Unlock()
	session.stop()
}

func (session *VerificationSession) expire() {
	if session.IsTerminal() {
		return
	}
	session.terminate(StateExpired, "session expired before a match")
}

func (session *VerificationSession) setState(state SessionState) {
	session.mutex.Lock()
	session.state = state
	session.mutex.Unlock()
}

func (session *VerificationSession) IsTerminal() bool {
	session.mutex.RLock()
	defer session.mutex.RUnlock()
	return session.state == StateMatched || session.state == StateFailed || session.state == StateExpired
}

func (session *VerificationSession) Snapshot() SessionSnapshot {
	session.mutex.RLock()
	defer session.mutex.RUnlock()
	return SessionSnapshot{
		ID:             session.config.ID,
		StudentID:      session.config.StudentID,
		State:          session.state,
		Attempts:       session.attempts,
		LastSimilarity: session.lastSimilarity,
		LastReason:     session.lastReason,
		MatchedAt:      session.matchedAt,
		ExpiresAt:      session.expiresAt,
	}
}

func (session *VerificationSession) stop() {
	session.closeOnce.Do(func() {
		session.expiryTimer.Stop()
		close(session.done)
	})
}

// Close stops the worker. Safe to call more than once.
func (session *VerificationSession) Close() {
	session.stop()
}
