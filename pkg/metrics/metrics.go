// Package metrics provides Prometheus metrics for matching runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal tracks finished runs by their final state
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "runs_total",
			Help:      "Total number of matching runs by final state",
		},
		[]string{"profile", "state"},
	)

	// RunDuration tracks run duration in seconds
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "run_duration_seconds",
			Help:      "Duration of matching runs in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"profile"},
	)

	// ComparisonsTotal tracks scored candidate pairs
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "comparisons_total",
			Help:      "Total number of candidate pairs scored",
		},
		[]string{"profile"},
	)

	// MatchesTotal tracks pairs at or above the twin threshold
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Total number of detected twins",
		},
		[]string{"profile"},
	)

	// BucketSize tracks the number of records per blocking bucket
	BucketSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "blocking",
			Name:      "bucket_size",
			Help:      "Number of records per blocking bucket",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
		},
		[]string{"profile"},
	)

	// BucketsSkipped tracks buckets over the configured size limit
	BucketsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "blocking",
			Name:      "buckets_skipped_total",
			Help:      "Total number of blocking buckets skipped for exceeding the size limit",
		},
		[]string{"profile"},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)

	// KafkaPublishDuration tracks Kafka publish duration
	KafkaPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "kafka",
			Name:      "publish_duration_seconds",
			Help:      "Duration of Kafka publish operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)
)

// RecordRun records a finished run
func RecordRun(profile, state string, durationSeconds float64) {
	RunsTotal.WithLabelValues(profile, state).Inc()
	RunDuration.WithLabelValues(profile).Observe(durationSeconds)
}

// RecordScoring records the comparisons and matches of a run
func RecordScoring(profile string, comparisons, matches int) {
	ComparisonsTotal.WithLabelValues(profile).Add(float64(comparisons))
	MatchesTotal.WithLabelValues(profile).Add(float64(matches))
}

// RecordBucket records the size of a blocking bucket and whether it was skipped
func RecordBucket(profile string, size int, skipped bool) {
	BucketSize.WithLabelValues(profile).Observe(float64(size))
	if skipped {
		BucketsSkipped.WithLabelValues(profile).Inc()
	}
}

// RecordKafkaPublish records a Kafka publish operation
func RecordKafkaPublish(topic, status string, count int, durationSeconds float64) {
	KafkaMessagesPublished.WithLabelValues(topic, status).Add(float64(count))
	KafkaPublishDuration.Observe(durationSeconds)
}
