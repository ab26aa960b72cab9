package kling

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "upstream",
		Name:      "attempts_total",
		Help:      "Outbound upstream attempts by outcome (response or transport failure).",
	}, []string{"outcome"})

	upstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "relay",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of upstream calls that produced a response.",
		Buckets:   prometheus.DefBuckets,
	})

	fallbackProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relay",
		Subsystem: "resolver",
		Name:      "probes_total",
		Help:      "Status probes by provider and result (hit, miss, auth).",
	}, []string{"provider", "result"})
)
