package models

import "time"

type SystemStatus string

const (
	SystemStatusOnline  SystemStatus = "online"
	SystemStatusOffline SystemStatus = "offline"
	SystemStatusWarning SystemStatus = "warning"
)

// System is one camera/LiDAR installation in the fleet.
type System struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Status        SystemStatus `json:"status"`
	LastHeartbeat time.Time    `json:"lastHeartbeat"`
	Location      string       `json:"location,omitempty"`
}
