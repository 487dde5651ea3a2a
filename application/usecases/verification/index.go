package verification_usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/constants"
	"vericlass.io/application/repository"
	"vericlass.io/application/utils"
	"vericlass.io/infrastructure/biometric"
	"vericlass.io/infrastructure/logger"
)

// sessionDirectory holds the live verification sessions for this instance.
// Sessions are in-memory by design; a student restarts verification if the
// instance serving them goes away.
type sessionDirectory struct {
	mutex    sync.RWMutex
	sessions map[string]*biometric.VerificationSession
}

var directory = sessionDirectory{
	sessions: map[string]*biometric.VerificationSession{},
}

func (dir *sessionDirectory) add(session *biometric.VerificationSession, id string) {
	dir.mutex.Lock()
	dir.sessions[id] = session
	dir.mutex.Unlock()
}

func (dir *sessionDirectory) get(id string) *biometric.VerificationSession {
	dir.mutex.RLock()
	defer dir.mutex.RUnlock()
	return dir.sessions[id]
}

// SweepSessions drops every session that has reached a terminal state and
// returns how many were removed.
func SweepSessions() int {
	directory.mutex.Lock()
	defer directory.mutex.Unlock()

	removed := 0
	for id, session := range directory.sessions {
		if session.IsTerminal() {
			session.Close()
			delete(directory.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSessionUseCase opens a verification session against the student's
// enrolled face profile.
func StartSessionUseCase(ctx any, studentID string, deviceID string) *biometric.SessionSnapshot {
	profileRepo := repository.FaceProfileRepo()
	profile, err := profileRepo.FindOneByFilter(context.TODO(), map[string]interface{}{
		"studentID": studentID,
	})
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}
	if profile == nil {
		apperrors.CustomError(ctx, "no face profile enrolled for this account. enroll a face profile before verifying.",
			&constants.FACE_NOT_ENROLLED, deviceID)
		return nil
	}

	service := biometric.Service()
	if profile.ModelName != service.ModelName() {
		apperrors.CustomError(ctx, "your face profile was enrolled with an older model. enroll again.",
			&constants.FACE_NOT_ENROLLED, deviceID)
		return nil
	}

	config := biometric.VerificationSessionConfig{
		ID:             fmt.Sprintf("ver_%s", utils.GenerateULIDString()),
		StudentID:      studentID,
		Reference:      profile.Embedding,
		MatchThreshold: utils.GetEnvFloat("FACE_MATCH_THRESHOLD", 0.363),
		MaxAttempts:    utils.GetEnvInt("VERIFICATION_MAX_ATTEMPTS", 20),
		TTL:            time.Duration(utils.GetEnvInt("VERIFICATION_SESSION_TTL_SECS", 300)) * time.Second,
	}
	session := biometric.NewVerificationSession(config, service, service.Gate())
	directory.add(session, config.ID)

	logger.Info("verification session started", logger.LoggerOptions{
		Key:  "sessionID",
		Data: config.ID,
	}, logger.LoggerOptions{
		Key:  "studentID",
		Data: studentID,
	})

	snapshot := session.Snapshot()
	return &snapshot
}

// SubmitFrameUseCase forwards a frame to a running session. The second
// return value reports whether the frame was taken; a false with a non-nil
// snapshot means the session is already terminal.
func SubmitFrameUseCase(ctx any, sessionID string, studentID string, frame biometric.Frame, deviceID string) (*biometric.SessionSnapshot, bool) {
	session := directory.get(sessionID)
	if session == nil || session.Snapshot().StudentID != studentID {
		apperrors.NotFoundError(ctx, "verification session not found", &deviceID)
		return nil, false
	}

	accepted := session.SubmitFrame(frame)
	snapshot := session.Snapshot()
	return &snapshot, accepted
}

// GetSessionUseCase returns the current snapshot of a session.
func GetSessionUseCase(ctx any, sessionID string, studentID string, deviceID string) *biometric.SessionSnapshot {
	session := directory.get(sessionID)
	if session == nil || session.Snapshot().StudentID != studentID {
		apperrors.NotFoundError(ctx, "verification session not found", &deviceID)
		return nil
	}
	snapshot := session.Snapshot()
	return &snapshot
}

// IsSessionMatched reports whether the session completed with a face match
// for the given student. Used by the attendance pipeline as the identity
// gate.
func IsSessionMatched(sessionID string, studentID string) bool {
	session := directory.get(sessionID)
	if session == nil {
		return false
	}
	snapshot := session.Snapshot()
	return snapshot.StudentID == studentID && snapshot.State == biometric.StateMatched
}
