package channel

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/your-org/fleetwatch/internal/errs"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/validate"
	"github.com/your-org/fleetwatch/pkg/dto"
)

// Clock lets tests pin command timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// dispatch routes one inbound frame to its handler. Acknowledgments go to
// the originating connection only; global consistency comes from the next
// broadcast tick.
func (h *Hub) dispatch(c *Client, data []byte) {
	var env dto.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		c.replyError("invalid data format")
		return
	}

	switch env.Event {
	case dto.EventUpdateSettings:
		h.handleUpdateSettings(c, env.Data)
	case dto.EventRecordingStart:
		h.handleRecordingStart(c, env.Data)
	case dto.EventRecordingStop:
		h.handleRecordingStop(c)
	case dto.EventRecordingPause:
		h.handleRecordingPause(c)
	case dto.EventRecordingResume:
		h.handleRecordingResume(c)
	case dto.EventLidarUpdateView:
		h.handleLidarView(c, env.Data)
	default:
		observability.CommandsTotal.WithLabelValues("unknown", "rejected").Inc()
		c.replyError("unknown event")
	}
}

func (h *Hub) handleUpdateSettings(c *Client, data []byte) {
	var req dto.UpdateSettingsEvent
	if err := json.Unmarshal(data, &req); err != nil {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.replyError("invalid data format")
		return
	}
	if !validate.ID(req.CameraID) {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.replyError("invalid camera ID")
		return
	}
	if !validate.Settings(req.Settings) {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.replyError("invalid camera settings")
		return
	}

	stored, err := h.registry.ApplySettings(req.CameraID, req.Settings, h.clock.Now())
	if err != nil {
		observability.CommandsTotal.WithLabelValues("camera:updateSettings", "rejected").Inc()
		c.replyError("camera not found")
		return
	}

	observability.CommandsTotal.WithLabelValues("camera:updateSettings", "applied").Inc()
	slog.Info("camera settings updated", "camera", req.CameraID, "transport", "channel")
	c.reply(dto.EventSettingsUpdated, dto.SettingsUpdatedEvent{
		CameraID: req.CameraID,
		Settings: stored,
	})
}

func (h *Hub) handleRecordingStart(c *Client, data []byte) {
	var cfg dto.RecordingConfigRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &cfg); err != nil {
			observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
			c.replyError("invalid recording configuration")
			return
		}
	}

	s, err := h.sessions.Start(cfg, h.clock.Now())
	switch {
	case errors.Is(err, errs.ErrValidation):
		observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
		c.replyError("invalid recording configuration")
		return
	case errors.Is(err, errs.ErrConflict):
		observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
		c.replyError("recording already in progress")
		return
	case err != nil:
		observability.CommandsTotal.WithLabelValues("recording:start", "rejected").Inc()
		c.replyError("recording start failed")
		return
	}

	observability.CommandsTotal.WithLabelValues("recording:start", "applied").Inc()
	slog.Info("recording started", "session", s.ID, "transport", "channel")
	c.reply(dto.EventRecordingUpdate, s)
}

func (h *Hub) handleRecordingStop(c *Client) {
	s, err := h.sessions.Stop(h.clock.Now())
	if err != nil {
		observability.CommandsTotal.WithLabelValues("recording:stop", "rejected").Inc()
		c.replyError("no active recording")
		return
	}

	observability.CommandsTotal.WithLabelValues("recording:stop", "applied").Inc()
	slog.Info("recording stopped", "session", s.ID, "transport", "channel")
	c.reply(dto.EventRecordingUpdate, s)
}

func (h *Hub) handleRecordingPause(c *Client) {
	s, err := h.sessions.Pause()
	if err != nil {
		observability.CommandsTotal.WithLabelValues("recording:pause", "rejected").Inc()
		c.replyError("no active recording")
		return
	}
	observability.CommandsTotal.WithLabelValues("recording:pause", "applied").Inc()
	c.reply(dto.EventRecordingUpdate, s)
}

func (h *Hub) handleRecordingResume(c *Client) {
	s, err := h.sessions.Resume()
	if err != nil {
		observability.CommandsTotal.WithLabelValues("recording:resume", "rejected").Inc()
		c.replyError("no active recording")
		return
	}
	observability.CommandsTotal.WithLabelValues("recording:resume", "applied").Inc()
	c.reply(dto.EventRecordingUpdate, s)
}

// handleLidarView echoes the view-state payload back uninterpreted after a
// shallow shape check. The payload semantics belong to the viewer.
func (h *Hub) handleLidarView(c *Client, data []byte) {
	var shallow map[string]json.RawMessage
	if err := json.Unmarshal(data, &shallow); err != nil || shallow == nil {
		observability.CommandsTotal.WithLabelValues("lidar:updateView", "rejected").Inc()
		c.replyError("invalid data format")
		return
	}
	observability.CommandsTotal.WithLabelValues("lidar:updateView", "applied").Inc()
	c.reply(dto.EventLidarViewUpdate, json.RawMessage(data))
}
