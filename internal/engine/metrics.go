package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// intentsProcessed counts intents applied by the run loop, by kind.
	intentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_engine_intents_processed_total",
		Help: "Total intents applied by the state actor, by intent kind",
	}, []string{"kind"})

	// storageFailures counts durable-storage writes that failed and were
	// skipped. In-memory state is not rolled back.
	storageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_engine_storage_failures_total",
		Help: "Total failed storage writes, by operation",
	}, []string{"op"})

	// intentQueueDepth tracks intents waiting for the run loop.
	intentQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "murmur_engine_intent_queue_depth",
		Help: "Intents enqueued but not yet applied",
	})

	// stateRevision is the revision of the most recently published snapshot.
	stateRevision = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "murmur_engine_state_revision",
		Help: "Revision of the latest published state snapshot",
	})
)
