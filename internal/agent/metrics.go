package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "murmur_reasoning_request_duration_seconds",
		Help:    "Latency of reasoning service requests, including failures",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	})

	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_reasoning_errors_total",
		Help: "Failed reasoning requests by error kind",
	}, []string{"kind"})

	tokensUsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_reasoning_tokens_total",
		Help: "Tokens reported by the reasoning service",
	}, []string{"direction"})
)
