package models

import "time"

type CameraStatus string

const (
	CameraStatusConnected    CameraStatus = "connected"
	CameraStatusDisconnected CameraStatus = "disconnected"
	CameraStatusError        CameraStatus = "error"
)

// Setting field bounds. Out-of-range values that pass validation are
// clamped into this range, not rejected.
const (
	SettingMin = 0
	SettingMax = 1000
)

// SettingKeys is the closed set of adjustable camera settings. Payloads
// carrying any other key are rejected whole.
var SettingKeys = []string{"exposure", "gain", "whiteBalance", "focus", "zoom"}

type CameraSettings struct {
	Exposure     float64 `json:"exposure"`
	Gain         float64 `json:"gain"`
	WhiteBalance float64 `json:"whiteBalance"`
	Focus        float64 `json:"focus"`
	Zoom         float64 `json:"zoom"`
}

// Set assigns a recognized setting field, clamping into [SettingMin,
// SettingMax]. Unknown keys are ignored; validation rejects them upstream.
func (s *CameraSettings) Set(key string, value float64) {
	if value < SettingMin {
		value = SettingMin
	}
	if value > SettingMax {
		value = SettingMax
	}
	switch key {
	case "exposure":
		s.Exposure = value
	case "gain":
		s.Gain = value
	case "whiteBalance":
		s.WhiteBalance = value
	case "focus":
		s.Focus = value
	case "zoom":
		s.Zoom = value
	}
}

type CameraMetrics struct {
	FPS         float64  `json:"fps"`
	Resolution  string   `json:"resolution"`
	Temperature float64  `json:"temperature"`
	Errors      []string `json:"errors"`
}

// Camera is a single video source attached to a System. SystemID is a weak
// reference used for lookup only.
type Camera struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	SystemID   string         `json:"systemId"`
	URL        string         `json:"url"`
	Status     CameraStatus   `json:"status"`
	Settings   CameraSettings `json:"settings"`
	Metrics    CameraMetrics  `json:"metrics"`
	LastUpdate time.Time      `json:"lastUpdate"`
}
