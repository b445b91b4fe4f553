package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fleetwatch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	ChannelConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetwatch",
		Name:      "channel_connections",
		Help:      "Number of active channel connections",
	})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetwatch",
		Name:      "commands_total",
		Help:      "Control commands processed, by kind and outcome",
	}, []string{"kind", "outcome"})

	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetwatch",
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected by the rate limiter",
	})

	BroadcastTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fleetwatch",
		Name:      "broadcast_tick_duration_seconds",
		Help:      "Duration of one telemetry broadcast tick",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	RecordingActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fleetwatch",
		Name:      "recording_active",
		Help:      "1 while a recording session is active, 0 otherwise",
	})

	AlertsRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fleetwatch",
		Name:      "alerts_relayed_total",
		Help:      "Alerts relayed from the feed to channel observers",
	})
)
