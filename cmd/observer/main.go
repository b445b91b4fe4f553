// The observer connects to a fleetwatch server over the persistent channel
// and logs every state push. It doubles as a smoke test for the channel
// client's reconnect behavior.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/your-org/fleetwatch/internal/channel/client"
	"github.com/your-org/fleetwatch/internal/config"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/pkg/dto"
)

func main() {
	url := flag.String("url", "ws://localhost:3001/ws", "channel endpoint")
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, "text")

	c := client.New(*url, cfg.Client)

	// Subscriptions registered before Connect are attached once the
	// connection exists and survive every reconnect.
	c.On(client.EventConnected, func(json.RawMessage) {
		slog.Info("channel connected")
	})
	c.On(client.EventDisconnected, func(json.RawMessage) {
		slog.Warn("channel disconnected")
	})
	c.On(client.EventConnectionFailed, func(json.RawMessage) {
		slog.Error("channel connection failed permanently")
	})

	c.On(dto.EventSystemStatus, func(data json.RawMessage) {
		var snap dto.SystemStatusEvent
		if err := json.Unmarshal(data, &snap); err != nil {
			return
		}
		slog.Info("snapshot", "systems", len(snap.Systems), "cameras", len(snap.Cameras))
	})
	c.On(dto.EventRecordingUpdate, func(data json.RawMessage) {
		slog.Info("recording update", "session", string(data))
	})
	c.On(dto.EventAlertNew, func(data json.RawMessage) {
		slog.Warn("alert", "alert", string(data))
	})
	c.On(dto.EventError, func(data json.RawMessage) {
		slog.Warn("server error event", "detail", string(data))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Connect(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	c.Close()
	slog.Info("observer stopped")
}
