package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/validate"
	"github.com/your-org/fleetwatch/pkg/dto"
)

type CameraHandler struct {
	registry *registry.Registry
}

func NewCameraHandler(reg *registry.Registry) *CameraHandler {
	return &CameraHandler{registry: reg}
}

// UpdateSettings applies a validated settings payload to one camera. The
// payload must decode to a flat key→number object; anything else is a 400.
func (h *CameraHandler) UpdateSettings(c *gin.Context) {
	id := c.Param("id")
	if !validate.ID(id) {
		c.JSON(http.StatusBadRequest, dto.Err("Invalid camera ID format"))
		return
	}

	var settings map[string]float64
	if err := c.ShouldBindJSON(&settings); err != nil {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.JSON(http.StatusBadRequest, dto.Err("Invalid camera settings format"))
		return
	}
	if !validate.Settings(settings) {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.JSON(http.StatusBadRequest, dto.Err("Invalid camera settings format"))
		return
	}

	stored, err := h.registry.ApplySettings(id, settings, time.Now())
	if err != nil {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.JSON(http.StatusNotFound, dto.Err("Camera not found"))
		return
	}

	observability.CommandsTotal.WithLabelValues("camera:updateSettings", "applied").Inc()
	slog.Info("camera settings updated", "camera", id, "transport", "rest")
	c.JSON(http.StatusOK, dto.OK(dto.SettingsUpdatedEvent{CameraID: id, Settings: stored}))
}
