package handlers

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/fleetwatch/internal/validate"
	"github.com/your-org/fleetwatch/pkg/dto"
)

const defaultSystemID = "system_1"

type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

// Get serves a synthesized network and health snapshot. An absent or
// malformed systemId query param falls back to the default system rather
// than failing.
func (h *StatusHandler) Get(c *gin.Context) {
	systemID := c.Query("systemId")
	if systemID == "" || !validate.ID(systemID) {
		systemID = defaultSystemID
	}

	c.JSON(http.StatusOK, dto.OK(dto.StatusSnapshot{
		SystemID: systemID,
		Network: dto.NetworkStatus{
			BandwidthUsage: rand.Float64() * 100,
			Latency:        rand.Float64() * 50,
			PacketLoss:     rand.Float64() * 5,
		},
		Health: dto.HealthStatus{
			CPUUsage:    rand.Float64() * 100,
			MemoryUsage: rand.Float64() * 100,
			DiskUsage:   rand.Float64() * 100,
			Temperature: 40 + rand.Float64()*20,
			Warnings:    []string{},
		},
		Timestamp: time.Now(),
	}))
}
