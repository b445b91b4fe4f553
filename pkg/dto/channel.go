package dto

import (
	"encoding/json"

	"github.com/your-org/fleetwatch/internal/models"
)

// Channel event names. Inbound events are commands from observers; outbound
// events are acks and state pushes from the server.
const (
	EventUpdateSettings  = "camera:updateSettings"
	EventSettingsUpdated = "camera:settingsUpdated"
	EventRecordingStart  = "recording:start"
	EventRecordingStop   = "recording:stop"
	EventRecordingPause  = "recording:pause"
	EventRecordingResume = "recording:resume"
	EventRecordingUpdate = "recording:update"
	EventLidarUpdateView = "lidar:updateView"
	EventLidarViewUpdate = "lidar:viewUpdated"
	EventSystemStatus    = "system:status"
	EventAlertNew        = "alert:new"
	EventError           = "error"
)

// Envelope frames every message on the persistent channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an Envelope. Marshal failures surface as
// an error so callers never emit a half-built frame.
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

type UpdateSettingsEvent struct {
	CameraID string             `json:"cameraId"`
	Settings map[string]float64 `json:"settings"`
}

type SettingsUpdatedEvent struct {
	CameraID string                `json:"cameraId"`
	Settings models.CameraSettings `json:"settings"`
}

type SystemStatusEvent struct {
	Systems []models.System `json:"systems"`
	Cameras []models.Camera `json:"cameras"`
}

type ErrorEvent struct {
	Message string `json:"message"`
}
