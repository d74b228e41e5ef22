// Package matching finds records that likely describe the same real-world
// entity.
//
// A run builds blocking keys for every record, groups records sharing a key
// into buckets, scores every pair within a bucket with the profile's compare
// definitions, folds the per-field scores with its aggregator and reports
// the pairs that reach the twin threshold.
package matching

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/extractor"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// EngineConfig contains configuration for the match engine
type EngineConfig struct {
	Workers           int           // Concurrent pair scorers (default: number of CPUs)
	QueueSize         int           // Buffered pairs between blocking and scoring (default: 1024)
	RunTimeout        time.Duration // Upper bound for one run; 0 disables it
	SkipEmptyKeys     bool          // Leave records with an empty blocking key out of that key's buckets
	MaxBucketSize     int           // Buckets larger than this are skipped; 0 means unlimited
	ComparerCacheSize int           // Memoized value pairs per comparer; 0 disables the cache
	MetricsEnabled    bool
}

// DefaultConfig returns default engine configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		Workers:   runtime.NumCPU(),
		QueueSize: 1024,
	}
}

// Engine runs matching profiles against record sets. It is safe for
// concurrent use; every run has its own state.
type Engine struct {
	logger    ectologger.Logger
	extractor *extractor.Extractor
	config    EngineConfig
	sink      events.Sink
	hook      StateHook
}

type Option func(*Engine)

// WithSink publishes matches and clusters of every successful run.
func WithSink(sink events.Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithStateHook observes the state transitions of every run.
func WithStateHook(hook StateHook) Option {
	return func(e *Engine) {
		e.hook = hook
	}
}

// WithExtractor replaces the record field resolver.
func WithExtractor(x *extractor.Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// NewEngine creates a new match engine
func NewEngine(logger ectologger.Logger, config EngineConfig, opts ...Option) *Engine {
	defaults := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}

	e := &Engine{
		logger:    logger,
		extractor: extractor.New(),
		config:    config,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run finds the twins among records. A negative threshold selects the
// profile's threshold (see UseProfileThreshold).
//
// Run always returns a Result. When the profile or records are invalid, or
// the run is cancelled, the Result is in StateFailed and the error says why;
// invalid configuration is reported as errors.ConfigErrors before any work
// starts. A sink failure leaves the Result in StateDone and is returned
// wrapped.
func (e *Engine) Run(ctx context.Context, data *models.MatchingData, records []models.Record, threshold float64) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Run")
	defer span.End()

	start := time.Now()
	r := &run{id: uuid.NewString(), state: StateIdle, hook: e.hook}
	result := &Result{RunID: r.id, Stats: Stats{Records: len(records)}}
	if data != nil {
		result.Profile = data.Name
	}

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":  r.id,
		"profile": result.Profile,
		"records": len(records),
	})

	fail := func(err error) (*Result, error) {
		r.transition(StateFailed)
		result.State = r.state
		result.Stats.Duration = time.Since(start)
		if e.config.MetricsEnabled {
			metrics.RecordRun(result.Profile, r.state.String(), result.Stats.Duration.Seconds())
		}
		tracing.RecordError(span, err)
		log.WithError(err).Warn("Matching run failed")
		return result, err
	}

	p, err := e.compile(data, records, threshold)
	if err != nil {
		return fail(err)
	}
	result.Threshold = p.threshold

	if e.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.RunTimeout)
		defer cancel()
	}

	r.transition(StateBlocking)
	buckets, err := e.block(ctx, p, records)
	if err != nil {
		return fail(fmt.Errorf("blocking: %w", err))
	}
	result.Stats.Buckets = len(buckets)

	r.transition(StateScoring)
	matches, stats, err := e.score(ctx, p, records, buckets)
	result.Stats.LargestBucket = stats.largest
	result.Stats.SkippedBuckets = stats.skipped
	result.Stats.CandidatePairs = stats.candidatePairs
	result.Stats.Comparisons = int(stats.comparisons.Load())
	if err != nil {
		return fail(fmt.Errorf("scoring: %w", err))
	}

	sortMatches(matches)
	result.Matches = matches
	result.Stats.Matches = len(matches)
	result.Stats.Duration = time.Since(start)

	r.transition(StateDone)
	result.State = r.state

	tracing.SetAttributes(ctx, map[string]int{
		"fern.records":     result.Stats.Records,
		"fern.buckets":     result.Stats.Buckets,
		"fern.comparisons": result.Stats.Comparisons,
		"fern.matches":     result.Stats.Matches,
	})
	if e.config.MetricsEnabled {
		metrics.RecordRun(result.Profile, r.state.String(), result.Stats.Duration.Seconds())
		metrics.RecordScoring(result.Profile, result.Stats.Comparisons, result.Stats.Matches)
	}

	log.WithFields(map[string]any{
		"buckets":         result.Stats.Buckets,
		"candidate_pairs": result.Stats.CandidatePairs,
		"comparisons":     result.Stats.Comparisons,
		"matches":         result.Stats.Matches,
		"duration_ms":     result.Stats.Duration.Milliseconds(),
	}).Info("Matching run finished")

	if e.sink != nil {
		if err := e.emit(ctx, result); err != nil {
			return result, fmt.Errorf("emit results of run %s: %w", result.RunID, err)
		}
	}

	return result, nil
}

func (e *Engine) emit(ctx context.Context, result *Result) error {
	run := events.Run{ID: result.RunID, Profile: result.Profile}
	if err := e.sink.EmitMatches(ctx, run, result.Matches); err != nil {
		return err
	}
	return e.sink.EmitClusters(ctx, run, result.Clusters())
}
