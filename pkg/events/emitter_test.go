package events

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
)

type fakePublisher struct {
	twins    []*kafka.TwinEvent
	clusters []*kafka.ClusterEvent
	err      error
}

func (p *fakePublisher) PublishTwinEvents(_ context.Context, events []*kafka.TwinEvent) error {
	p.twins = append(p.twins, events...)
	return p.err
}

func (p *fakePublisher) PublishClusterEvents(_ context.Context, events []*kafka.ClusterEvent) error {
	p.clusters = append(p.clusters, events...)
	return p.err
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestEmitMatches(t *testing.T) {
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, testLogger())
	run := Run{ID: "run-1", Profile: "people"}

	err := emitter.EmitMatches(context.Background(), run, []models.Match{
		{LeftID: "1", RightID: "2", Score: 0.9, FieldScores: map[string]float64{"LastName": 0.9}, BlockingKey: "k=mei"},
	})
	require.NoError(t, err)
	require.Len(t, publisher.twins, 1)

	event := publisher.twins[0]
	assert.Equal(t, "twin.detected", event.EventType)
	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, "people", event.Profile)
	assert.Equal(t, "k=mei", event.BlockingKey)
	assert.Equal(t, 0.9, event.FieldScores["LastName"])
}

func TestEmitClusters(t *testing.T) {
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, testLogger())

	err := emitter.EmitClusters(context.Background(), Run{ID: "run-1"}, []models.Cluster{
		{ID: "c-1", RecordIDs: []string{"1", "2", "3"}, MaxScore: 0.95},
	})
	require.NoError(t, err)
	require.Len(t, publisher.clusters, 1)
	assert.Equal(t, "twin.cluster", publisher.clusters[0].EventType)
	assert.Equal(t, []string{"1", "2", "3"}, publisher.clusters[0].RecordIDs)
}

func TestEmit_PropagatesErrors(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	emitter := NewEmitter(publisher, testLogger())

	err := emitter.EmitMatches(context.Background(), Run{ID: "run-1"}, []models.Match{{LeftID: "1", RightID: "2"}})
	assert.EqualError(t, err, "broker down")
}
