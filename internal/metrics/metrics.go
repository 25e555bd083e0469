package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gochat_connections_active",
			Help: "Live websocket connections",
		},
	)

	IdentitiesOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gochat_identities_online",
			Help: "Identities with at least one live connection",
		},
	)

	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_intents_total",
			Help: "Client intents processed",
		},
		[]string{"intent", "outcome"}, // outcome: ok, error
	)

	FanoutDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_fanout_deliveries_total",
			Help: "Events delivered to individual connections",
		},
	)

	FanoutDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_fanout_dropped_total",
			Help: "Events dropped because a connection's send queue was full",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_rate_limit_hits_total",
			Help: "Intents rejected by per-connection rate limiting",
		},
	)

	AuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_auth_failures_total",
			Help: "Websocket handshakes rejected for bad credentials",
		},
	)
)
