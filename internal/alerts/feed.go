// Package alerts relays fleet alerts published by external collaborators to
// every connected channel observer. The core neither produces nor stores
// alerts; this is transport only.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/fleetwatch/internal/models"
	"github.com/your-org/fleetwatch/internal/observability"
	"github.com/your-org/fleetwatch/internal/validate"
	"github.com/your-org/fleetwatch/pkg/dto"
)

const (
	StreamName  = "ALERTS"
	SubjectBase = "alerts"
)

// Sink matches the hub's fan-out surface.
type Sink interface {
	Broadcast(event string, payload any)
}

type Feed struct {
	nc   *nats.Conn
	js   jetstream.JetStream
	sink Sink
}

func NewFeed(natsURL string, sink Sink) (*Feed, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return &Feed{nc: nc, js: js, sink: sink}, nil
}

// EnsureStream creates the alert stream if it doesn't exist.
func (f *Feed) EnsureStream(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := f.js.CreateOrUpdateStream(opCtx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectBase + ".>"},
		Retention:   jetstream.InterestPolicy,
		MaxAge:      24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Description: "Fleet alerts from external collaborators",
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}
	return nil
}

// Run consumes alerts and fans them out until ctx is cancelled. Malformed
// alerts are acked and dropped; the feed never takes the process down.
func (f *Feed) Run(ctx context.Context, consumerName string) error {
	stream, err := f.js.Stream(ctx, StreamName)
	if err != nil {
		return fmt.Errorf("get stream %s: %w", StreamName, err)
	}

	cons, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:      consumerName,
		Durable:   consumerName,
		AckPolicy: jetstream.AckExplicitPolicy,
		AckWait:   30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create consumer %s: %w", consumerName, err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		f.relay(msg.Data())
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}

	go func() {
		<-ctx.Done()
		cc.Stop()
	}()

	slog.Info("alert feed started", "stream", StreamName)
	return nil
}

func (f *Feed) relay(data []byte) {
	var alert models.Alert
	if err := json.Unmarshal(data, &alert); err != nil {
		slog.Warn("drop malformed alert", "error", err)
		return
	}
	if !validate.ID(alert.SystemID) {
		slog.Warn("drop alert with bad system id", "systemId", alert.SystemID)
		return
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now()
	}

	observability.AlertsRelayed.Inc()
	f.sink.Broadcast(dto.EventAlertNew, alert)
}

func (f *Feed) Close() {
	if f.nc != nil {
		f.nc.Close()
	}
}
