package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

var (
	FanoutDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "napbook",
		Subsystem: "push",
		Name:      "fanout_deliveries_total",
		Help:      "Per-friend status deliveries by outcome.",
	}, []string{"outcome"})

	FanoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "napbook",
		Subsystem: "push",
		Name:      "fanout_duration_seconds",
		Help:      "Time taken to push one status to every friend.",
		Buckets:   prometheus.DefBuckets,
	})

	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "napbook",
		Subsystem: "user",
		Name:      "sessions",
		Help:      "Signed on users.",
	})
)
