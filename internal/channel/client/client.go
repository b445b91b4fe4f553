// Package client maintains one logical channel connection for a consumer:
// automatic reconnection with bounded backoff, named event subscriptions
// that survive reconnects, and synthetic lifecycle events so state
// containers can tell a working channel from a fresh session.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/your-org/fleetwatch/internal/config"
	"github.com/your-org/fleetwatch/pkg/dto"
)

// Local lifecycle events emitted by the client itself, never by the server.
const (
	EventConnected        = "connected"
	EventDisconnected     = "disconnected"
	EventConnectionError  = "error"
	EventConnectionFailed = "connection_failed"
)

var ErrNotConnected = errors.New("channel not connected")

// Handler receives the raw payload of one event delivery.
type Handler func(data json.RawMessage)

type handlerEntry struct {
	id int
	fn Handler
}

// Client is the consumer-side channel manager. Subscriptions are held in
// the client, not the connection, so a reconnect re-attaches them
// implicitly and each server emission is delivered exactly once.
type Client struct {
	url    string
	cfg    config.ClientConfig
	dialer *websocket.Dialer

	mu        sync.Mutex
	handlers  map[string][]handlerEntry
	nextID    int
	conn      *websocket.Conn
	connected bool

	writeMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

func New(url string, cfg config.ClientConfig) *Client {
	return &Client{
		url:      url,
		cfg:      cfg,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		handlers: make(map[string][]handlerEntry),
	}
}

// On subscribes a handler to a named event. Subscribing works at any time,
// connected or not. The returned function removes the subscription.
func (c *Client) On(event string, fn Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.handlers[event] = append(c.handlers[event], handlerEntry{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		entries := c.handlers[event]
		for i, e := range entries {
			if e.id == id {
				c.handlers[event] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// Connect starts the connection manager. It returns immediately; progress
// surfaces through the lifecycle events.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.done != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.run(runCtx)
	}()
}

// Close cancels the reconnect loop, drops the connection and waits for the
// manager goroutine to exit.
func (c *Client) Close() {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}
}

// IsConnected reports whether a live connection exists right now.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Emit sends a command to the server. It fails when no connection exists;
// callers decide whether to queue or drop.
func (c *Client) Emit(event string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	env, err := dto.NewEnvelope(event, payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(env)
}

// Command helpers covering the control surface.

func (c *Client) UpdateCameraSettings(cameraID string, settings map[string]float64) error {
	return c.Emit(dto.EventUpdateSettings, dto.UpdateSettingsEvent{
		CameraID: cameraID,
		Settings: settings,
	})
}

func (c *Client) StartRecording(cfg dto.RecordingConfigRequest) error {
	return c.Emit(dto.EventRecordingStart, cfg)
}

func (c *Client) StopRecording(sessionID string) error {
	return c.Emit(dto.EventRecordingStop, dto.StopRecordingRequest{SessionID: sessionID})
}

func (c *Client) UpdateLidarView(view map[string]any) error {
	return c.Emit(dto.EventLidarUpdateView, view)
}

// run dials, reads until the connection drops, and reconnects with bounded
// backoff. After maxAttempts consecutive failed dials it gives up and emits
// a terminal connection_failed event.
func (c *Client) run(ctx context.Context) {
	attempt := 0

	for {
		conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			attempt++
			c.deliver(EventConnectionError, mustJSON(dto.ErrorEvent{Message: err.Error()}))
			if attempt >= c.cfg.MaxAttempts {
				slog.Warn("channel connection failed permanently", "attempts", attempt)
				c.deliver(EventConnectionFailed, nil)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff(attempt)):
			}
			continue
		}

		if ctx.Err() != nil {
			conn.Close()
			return
		}

		attempt = 0
		c.mu.Lock()
		c.conn = conn
		c.connected = true
		c.mu.Unlock()

		// Unblock the read loop when the context ends.
		stopWatch := context.AfterFunc(ctx, func() { conn.Close() })

		slog.Debug("channel connected", "url", c.url)
		c.deliver(EventConnected, nil)

		c.readLoop(conn)
		stopWatch()

		c.mu.Lock()
		c.conn = nil
		c.connected = false
		c.mu.Unlock()

		c.deliver(EventDisconnected, nil)

		if ctx.Err() != nil {
			return
		}
		attempt++
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.backoff(attempt)):
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			return
		}
		var env dto.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			slog.Debug("channel frame dropped", "error", err)
			continue
		}
		c.deliver(env.Event, env.Data)
	}
}

// deliver invokes every handler subscribed to event. Handlers are copied
// out under the lock and called without it so a handler may (un)subscribe.
func (c *Client) deliver(event string, data json.RawMessage) {
	c.mu.Lock()
	entries := append([]handlerEntry(nil), c.handlers[event]...)
	c.mu.Unlock()

	for _, e := range entries {
		e.fn(data)
	}
}

// backoff doubles from the floor up to the ceiling.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.cfg.BackoffFloor
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.cfg.BackoffCeiling {
			return c.cfg.BackoffCeiling
		}
	}
	if d > c.cfg.BackoffCeiling {
		return c.cfg.BackoffCeiling
	}
	return d
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
