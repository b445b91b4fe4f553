package dto

// RecordingConfigRequest carries the optional recording parameters of a
// start command. Absent fields take defaults downstream; present fields
// must pass validation before any state changes.
type RecordingConfigRequest struct {
	VideoQuality      string   `json:"videoQuality,omitempty"`
	Codec             string   `json:"codec,omitempty"`
	LidarPointDensity *float64 `json:"lidarPointDensity,omitempty"`
	OutputPath        string   `json:"outputPath,omitempty"`
	Naming            string   `json:"naming,omitempty"`
}

type StopRecordingRequest struct {
	SessionID string `json:"sessionId,omitempty"`
}
