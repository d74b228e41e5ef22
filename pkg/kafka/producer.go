// Package kafka publishes matching results to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// SchemaVersion is sent with every message as a header.
const SchemaVersion = "1.0"

// MessageWriter is the part of kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes result events
type Producer struct {
	writer         MessageWriter
	logger         ectologger.Logger
	topic          string
	metricsEnabled bool
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string

	// MetricsEnabled records publish counts and latency in Prometheus.
	MetricsEnabled bool
}

// NewProducer creates a producer backed by a kafka.Writer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	var compression kafka.Compression
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
	default:
		compression = kafka.Snappy
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(writer, cfg.Topic, logger).WithMetrics(cfg.MetricsEnabled)
}

// NewProducerWithWriter creates a producer over an existing writer. Metrics
// are off until WithMetrics enables them.
func NewProducerWithWriter(writer MessageWriter, topic string, logger ectologger.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		topic:  topic,
	}
}

// WithMetrics turns Prometheus publish metrics on or off.
func (p *Producer) WithMetrics(enabled bool) *Producer {
	p.metricsEnabled = enabled
	return p
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Topic returns the topic messages are written to
func (p *Producer) Topic() string {
	return p.topic
}

// TwinEvent reports one detected pair of twins
type TwinEvent struct {
	EventType   string             `json:"event_type"`
	RunID       string             `json:"run_id"`
	Profile     string             `json:"profile"`
	LeftID      string             `json:"left_id"`
	RightID     string             `json:"right_id"`
	Score       float64            `json:"score"`
	FieldScores map[string]float64 `json:"field_scores,omitempty"`
	BlockingKey string             `json:"blocking_key"`
	Timestamp   time.Time          `json:"timestamp"`
}

// ClusterEvent reports a group of records connected by twin pairs
type ClusterEvent struct {
	EventType string    `json:"event_type"`
	RunID     string    `json:"run_id"`
	Profile   string    `json:"profile"`
	ClusterID string    `json:"cluster_id"`
	RecordIDs []string  `json:"record_ids"`
	MaxScore  float64   `json:"max_score"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishTwinEvents publishes twin events in one batch, keyed by the left record ID
func (p *Producer) PublishTwinEvents(ctx context.Context, events []*TwinEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishTwinEvents")
	defer span.End()

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}
		msg, err := p.message(event.LeftID, event.EventType, event.RunID, event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	return p.write(ctx, "twin", messages)
}

// PublishClusterEvents publishes cluster events in one batch, keyed by cluster ID
func (p *Producer) PublishClusterEvents(ctx context.Context, events []*ClusterEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishClusterEvents")
	defer span.End()

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now().UTC()
		}
		msg, err := p.message(event.ClusterID, event.EventType, event.RunID, event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	return p.write(ctx, "cluster", messages)
}

func (p *Producer) message(key, eventType, runID string, event any) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "run_id", Value: []byte(runID)},
			{Key: "schema_version", Value: []byte(SchemaVersion)},
		},
	}, nil
}

func (p *Producer) write(ctx context.Context, kind string, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	start := time.Now()
	err := p.writer.WriteMessages(ctx, messages...)
	status := "success"
	if err != nil {
		status = "error"
	}
	if p.metricsEnabled {
		metrics.RecordKafkaPublish(p.topic, status, len(messages), time.Since(start).Seconds())
	}

	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"kind":       kind,
			"batch_size": len(messages),
		}).Error("Failed to publish events batch")
		return err
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"kind":       kind,
		"batch_size": len(messages),
	}).Debug("Published events batch")

	return nil
}
