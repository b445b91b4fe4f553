package dto

import "time"

// NetworkStatus and HealthStatus carry the synthesized snapshot served by
// GET /api/status. Values are resampled per request, not stored.
type NetworkStatus struct {
	BandwidthUsage float64 `json:"bandwidthUsage"`
	Latency        float64 `json:"latency"`
	PacketLoss     float64 `json:"packetLoss"`
}

type HealthStatus struct {
	CPUUsage    float64  `json:"cpuUsage"`
	MemoryUsage float64  `json:"memoryUsage"`
	DiskUsage   float64  `json:"diskUsage"`
	Temperature float64  `json:"temperature"`
	Warnings    []string `json:"warnings"`
}

type StatusSnapshot struct {
	SystemID  string        `json:"systemId"`
	Network   NetworkStatus `json:"network"`
	Health    HealthStatus  `json:"health"`
	Timestamp time.Time     `json:"timestamp"`
}
