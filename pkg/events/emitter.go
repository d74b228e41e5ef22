// Package events turns matching results into twin events.
package events

import (
	"context"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// EventType defines the type of event
type EventType string

const (
	EventTypeTwinDetected EventType = "twin.detected"
	EventTypeTwinCluster  EventType = "twin.cluster"
)

// Run identifies the matching run results belong to.
type Run struct {
	ID      string
	Profile string
}

// Sink receives the results of a finished run.
type Sink interface {
	EmitMatches(ctx context.Context, run Run, matches []models.Match) error
	EmitClusters(ctx context.Context, run Run, clusters []models.Cluster) error
}

// Publisher is the part of kafka.Producer the emitter needs.
type Publisher interface {
	PublishTwinEvents(ctx context.Context, events []*kafka.TwinEvent) error
	PublishClusterEvents(ctx context.Context, events []*kafka.ClusterEvent) error
}

// Emitter is a Sink that publishes events through a Publisher
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitMatches emits one twin.detected event per match
func (e *Emitter) EmitMatches(ctx context.Context, run Run, matches []models.Match) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatches")
	defer span.End()

	events := ectolinq.Map(matches, func(m models.Match) *kafka.TwinEvent {
		return &kafka.TwinEvent{
			EventType:   string(EventTypeTwinDetected),
			RunID:       run.ID,
			Profile:     run.Profile,
			LeftID:      m.LeftID,
			RightID:     m.RightID,
			Score:       m.Score,
			FieldScores: m.FieldScores,
			BlockingKey: m.BlockingKey,
		}
	})

	if err := e.publisher.PublishTwinEvents(ctx, events); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("run_id", run.ID).Error("Failed to emit twin.detected events")
		return err
	}

	return nil
}

// EmitClusters emits one twin.cluster event per cluster
func (e *Emitter) EmitClusters(ctx context.Context, run Run, clusters []models.Cluster) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitClusters")
	defer span.End()

	events := ectolinq.Map(clusters, func(c models.Cluster) *kafka.ClusterEvent {
		return &kafka.ClusterEvent{
			EventType: string(EventTypeTwinCluster),
			RunID:     run.ID,
			Profile:   run.Profile,
			ClusterID: c.ID,
			RecordIDs: c.RecordIDs,
			MaxScore:  c.MaxScore,
		}
	})

	if err := e.publisher.PublishClusterEvents(ctx, events); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithField("run_id", run.ID).Error("Failed to emit twin.cluster events")
		return err
	}

	return nil
}
