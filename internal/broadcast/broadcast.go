// Package broadcast drives the fixed-interval telemetry fan-out: one global
// cadence for the whole deployment.
package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/registry"
	"github.com/your-org/fleetwatch/internal/session"
	"github.com/your-org/fleetwatch/pkg/dto"
)

// Sink receives the outbound events of a tick. *channel.Hub satisfies it;
// tests substitute a recorder.
type Sink interface {
	Broadcast(event string, payload any)
}

type Broadcaster struct {
	registry *registry.Registry
	sessions *session.Manager
	sink     Sink
	interval time.Duration
}

func New(reg *registry.Registry, sessions *session.Manager, sink Sink, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		registry: reg,
		sessions: sessions,
		sink:     sink,
		interval: interval,
	}
}

// Run ticks until ctx is cancelled. The sink never blocks (slow observers
// are dropped by the hub), so ticks cannot pile up behind a stalled
// connection.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	slog.Info("telemetry broadcaster started", "interval", b.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("telemetry broadcaster stopped")
			return
		case now := <-ticker.C:
			b.Tick(now)
		}
	}
}

// Tick refreshes synthetic telemetry and pushes the full snapshot, plus a
// session update while a recording is active.
func (b *Broadcaster) Tick(now time.Time) {
	started := time.Now()

	b.registry.RefreshHeartbeats(now)
	b.registry.ResampleMetrics(now)

	b.sink.Broadcast(dto.EventSystemStatus, dto.SystemStatusEvent{
		Systems: b.registry.Systems(),
		Cameras: b.registry.Cameras(),
	})

	if s, ok := b.sessions.Current(now); ok {
		b.sink.Broadcast(dto.EventRecordingUpdate, s)
	}

	observability.BroadcastTickDuration.Observe(time.Since(started).Seconds())
}
