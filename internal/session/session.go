// Package session owns the recording lifecycle: at most one active session
// per installation, guarded transitions, duration derived at read time.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/fleetwatch/internal/errs"
	"github.com/your-org/fleetwatch/internal/models"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/validate"
	"github.com/your-org/fleetwatch/pkg/dto"
)

const (
	defaultQuality = models.VideoQualityHigh
	defaultCodec   = "h264"
)

// Manager holds the single current-session slot for a system. Stopped
// sessions leave the slot immediately; history is an external concern.
type Manager struct {
	mu       sync.Mutex
	systemID string
	current  *models.RecordingSession
}

func NewManager(systemID string) *Manager {
	return &Manager{systemID: systemID}
}

// Start begins a new recording session. It fails with ErrValidation on a
// malformed config and ErrConflict while another session occupies the slot.
// Absent optional fields take defaults; free-text fields are sanitized
// before they are stored.
func (m *Manager) Start(cfg dto.RecordingConfigRequest, now time.Time) (models.RecordingSession, error) {
	if !validate.RecordingConfig(cfg) {
		return models.RecordingSession{}, errs.ErrValidation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return models.RecordingSession{}, errs.ErrConflict
	}

	quality := models.VideoQuality(cfg.VideoQuality)
	if quality == "" {
		quality = defaultQuality
	}
	codec := validate.SanitizeString(cfg.Codec)
	if codec == "" {
		codec = defaultCodec
	}
	var density float64
	if cfg.LidarPointDensity != nil && *cfg.LidarPointDensity > 0 {
		density = *cfg.LidarPointDensity
	}

	m.current = &models.RecordingSession{
		ID:        "session_" + uuid.NewString(),
		SystemID:  m.systemID,
		StartTime: now,
		Status:    models.RecordingStatusRecording,
		Config: models.RecordingConfig{
			VideoQuality:      quality,
			Codec:             codec,
			LidarPointDensity: density,
			OutputPath:        validate.SanitizeString(cfg.OutputPath),
			Naming:            validate.SanitizeString(cfg.Naming),
		},
	}
	observability.RecordingActive.Set(1)

	return *m.current, nil
}

// Stop ends the current session and retires the slot. The returned copy
// carries the final status, end time and total duration.
func (m *Manager) Stop(now time.Time) (models.RecordingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return models.RecordingSession{}, errs.ErrNotFound
	}

	s := *m.current
	s.Status = models.RecordingStatusStopped
	s.EndTime = &now
	s.Duration = now.Sub(s.StartTime)

	m.current = nil
	observability.RecordingActive.Set(0)

	return s, nil
}

// Pause suspends the current session in place. Start time and config are
// untouched.
func (m *Manager) Pause() (models.RecordingSession, error) {
	return m.setStatus(models.RecordingStatusPaused)
}

// Resume returns a paused session to recording.
func (m *Manager) Resume() (models.RecordingSession, error) {
	return m.setStatus(models.RecordingStatusRecording)
}

func (m *Manager) setStatus(status models.RecordingStatus) (models.RecordingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return models.RecordingSession{}, errs.ErrNotFound
	}
	m.current.Status = status
	return *m.current, nil
}

// Current returns a copy of the active session with duration recomputed
// from now, or false when the slot is empty.
func (m *Manager) Current(now time.Time) (models.RecordingSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return models.RecordingSession{}, false
	}
	s := *m.current
	s.Duration = now.Sub(s.StartTime)
	return s, true
}

// History returns past sessions. Session persistence lives with an external
// collaborator; this serves its canned sample until that integration lands.
func (m *Manager) History(now time.Time) []models.RecordingSession {
	end := now.Add(-30 * time.Minute)
	return []models.RecordingSession{
		{
			ID:        "session_1",
			SystemID:  m.systemID,
			StartTime: now.Add(-time.Hour),
			EndTime:   &end,
			Duration:  30 * time.Minute,
			Status:    models.RecordingStatusStopped,
			Config: models.RecordingConfig{
				VideoQuality: models.VideoQualityHigh,
				Codec:        defaultCodec,
			},
		},
	}
}
