package models

import "time"

type RecordingStatus string

const (
	RecordingStatusRecording RecordingStatus = "recording"
	RecordingStatusPaused    RecordingStatus = "paused"
	RecordingStatusStopped   RecordingStatus = "stopped"
)

type VideoQuality string

const (
	VideoQualityLow    VideoQuality = "low"
	VideoQualityMedium VideoQuality = "medium"
	VideoQualityHigh   VideoQuality = "high"
)

// RecordingConfig is fixed at session start; it is never mutated afterwards.
type RecordingConfig struct {
	VideoQuality      VideoQuality `json:"videoQuality"`
	Codec             string       `json:"codec"`
	LidarPointDensity float64      `json:"lidarPointDensity"`
	OutputPath        string       `json:"outputPath"`
	Naming            string       `json:"naming"`
}

// RecordingSession is the single current recording for a System. Duration is
// recomputed from StartTime at read/broadcast time, never accumulated.
type RecordingSession struct {
	ID        string          `json:"id"`
	SystemID  string          `json:"systemId"`
	StartTime time.Time       `json:"startTime"`
	EndTime   *time.Time      `json:"endTime,omitempty"`
	Duration  time.Duration   `json:"duration"`
	Status    RecordingStatus `json:"status"`
	Config    RecordingConfig `json:"config"`
}
