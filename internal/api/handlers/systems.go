package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/validate"
	"github.com/your-org/fleetwatch/pkg/dto"
)

type SystemHandler struct {
	registry *registry.Registry
}

func NewSystemHandler(reg *registry.Registry) *SystemHandler {
	return &SystemHandler{registry: reg}
}

func (h *SystemHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(h.registry.Systems()))
}

func (h *SystemHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !validate.ID(id) {
		c.JSON(http.StatusBadRequest, dto.Err("Invalid system ID format"))
		return
	}

	system, err := h.registry.System(id)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.Err("System not found"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(system))
}

func (h *SystemHandler) Cameras(c *gin.Context) {
	id := c.Param("id")
	if !validate.ID(id) {
		c.JSON(http.StatusBadRequest, dto.Err("Invalid system ID format"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(h.registry.CamerasFor(id)))
}
