package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/fleetwatch/internal/errs"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/session"
	"github.com/your-org/fleetwatch/pkg/dto"
)

type RecordingHandler struct {
	sessions *session.Manager
}

func NewRecordingHandler(sessions *session.Manager) *RecordingHandler {
	return &RecordingHandler{sessions: sessions}
}

func (h *RecordingHandler) Start(c *gin.Context) {
	var cfg dto.RecordingConfigRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&cfg); err != nil {
			observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
			c.JSON(http.StatusBadRequest, dto.Err("Invalid recording configuration"))
			return
		}
	}

	s, err := h.sessions.Start(cfg, time.Now())
	switch {
	case errors.Is(err, errs.ErrValidation):
		observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
		c.JSON(http.StatusBadRequest, dto.Err("Invalid recording configuration"))
		return
	case errors.Is(err, errs.ErrConflict):
		observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
		c.JSON(http.StatusBadRequest, dto.Err("Recording already in progress"))
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, dto.Err("Failed to start recording"))
		return
	}

	observability.CommandsTotal.WithLabelValues("recording:start", "applied").Inc()
	slog.Info("recording started", "session", s.ID, "transport", "rest")
	c.JSON(http.StatusOK, dto.OK(s))
}

func (h *RecordingHandler) Stop(c *gin.Context) {
	s, err := h.sessions.Stop(time.Now())
	if err != nil {
		observability.CommandsTotal.WithLabelValues("recording:stop", "rejected").Inc()
		c.JSON(http.StatusBadRequest, dto.Err("No active recording"))
		return
	}

	observability.CommandsTotal.WithLabelValues("recording:stop", "applied").Inc()
	slog.Info("recording stopped", "session", s.ID, "transport", "rest")
	c.JSON(http.StatusOK, dto.OK(s))
}

// Sessions lists past recordings. The data comes from the session manager's
// history source, which an external collaborator owns.
func (h *RecordingHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OK(h.sessions.History(time.Now())))
}
