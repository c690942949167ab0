// Package metrics provides Prometheus instrumentation for the justswim
// daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the daemon's Prometheus collectors.
type Metrics struct {
	// SamplesIngested counts accelerometer samples fed to the classifier.
	SamplesIngested prometheus.Counter

	// SampleErrors counts failed sensor reads.
	SampleErrors prometheus.Counter

	// TapsDetected counts wall-tap events emitted by the classifier.
	TapsDetected prometheus.Counter

	// SetsCompleted counts finalized set records; CorrectedSets counts the
	// subset whose end time came from a wall tap.
	SetsCompleted prometheus.Counter
	CorrectedSets prometheus.Counter

	// LapsInSet tracks laps swum in the current set.
	LapsInSet prometheus.Gauge

	// PublishErrors counts failed MQTT publishes.
	PublishErrors prometheus.Counter
}

// New registers the daemon's metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SamplesIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "justswim",
			Name:      "samples_ingested_total",
			Help:      "Accelerometer samples fed to the tap classifier.",
		}),
		SampleErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "justswim",
			Name:      "sample_errors_total",
			Help:      "Failed accelerometer reads.",
		}),
		TapsDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "justswim",
			Name:      "taps_detected_total",
			Help:      "Wall-tap impacts detected.",
		}),
		SetsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "justswim",
			Name:      "sets_completed_total",
			Help:      "Swim sets finalized.",
		}),
		CorrectedSets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "justswim",
			Name:      "sets_corrected_total",
			Help:      "Swim sets whose end time was corrected by a wall tap.",
		}),
		LapsInSet: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "justswim",
			Name:      "laps_in_set",
			Help:      "Laps swum in the current set.",
		}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "justswim",
			Name:      "publish_errors_total",
			Help:      "Failed MQTT publishes.",
		}),
	}
}
