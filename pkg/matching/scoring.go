package matching

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/fern/pkg/compare"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type pairWork struct {
	left, right int
	bucket      string
}

type scoreStats struct {
	candidatePairs int
	comparisons    atomic.Int64
	skipped        int
	largest        int
}

// score compares every unordered pair of records sharing a bucket. A pair
// found in several buckets is scored once, for the first bucket in order.
func (e *Engine) score(ctx context.Context, p *plan, records []models.Record, buckets []bucket) ([]models.Match, *scoreStats, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.score")
	defer span.End()

	stats := &scoreStats{}
	workers := e.config.Workers
	work := make(chan pairWork, e.config.QueueSize)
	buffers := make([][]models.Match, workers)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(work)

		// with one key definition a pair meets in exactly one bucket
		var seen map[uint64]struct{}
		if len(p.keys) > 1 {
			seen = make(map[uint64]struct{})
		}
		for _, b := range buckets {
			// cancellation is honoured between buckets
			if err := gctx.Err(); err != nil {
				return err
			}

			n := len(b.records)
			stats.largest = max(stats.largest, n)
			skip := e.config.MaxBucketSize > 0 && n > e.config.MaxBucketSize
			if e.config.MetricsEnabled {
				metrics.RecordBucket(p.profile, n, skip)
			}
			if skip {
				stats.skipped++
				e.logger.WithContext(gctx).WithFields(map[string]any{
					"bucket":   b.label,
					"size":     n,
					"max_size": e.config.MaxBucketSize,
				}).Warn("Skipping oversized blocking bucket")
				continue
			}
			stats.candidatePairs += n * (n - 1) / 2

			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					left, right := b.records[i], b.records[j]
					if left > right {
						left, right = right, left
					}
					if seen != nil {
						key := uint64(left)<<32 | uint64(right)
						if _, ok := seen[key]; ok {
							continue
						}
						seen[key] = struct{}{}
					}

					select {
					case work <- pairWork{left: left, right: right, bucket: b.label}:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for item := range work {
				match, err := e.scorePair(gctx, p, records[item.left], records[item.right], item.bucket)
				if err != nil {
					return err
				}
				stats.comparisons.Add(1)
				if match != nil {
					buffers[w] = append(buffers[w], *match)
				}
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var matches []models.Match
	for _, buf := range buffers {
		matches = append(matches, buf...)
	}
	return matches, stats, nil
}

// scorePair evaluates every compare definition for one pair and returns a
// match when the aggregated score reaches the threshold.
func (e *Engine) scorePair(ctx context.Context, p *plan, a, b models.Record, bucketLabel string) (*models.Match, error) {
	similarities := make([]float64, len(p.compares))
	fieldScores := make(map[string]float64, len(p.compares))

	for i, cp := range p.compares {
		sim := e.similarity(ctx, cp, a, b)
		if cp.def.CandidateFieldName != "" {
			// cross-field definitions are direction-free
			sim = math.Max(sim, e.similarity(ctx, cp, b, a))
		}
		similarities[i] = sim
		fieldScores[cp.label] = sim
	}

	score, err := p.aggregator.Aggregate(similarities, p.weights)
	if err != nil {
		return nil, err
	}
	if score < p.threshold {
		return nil, nil
	}

	left, right := a.ID, b.ID
	if right < left {
		left, right = right, left
	}
	return &models.Match{
		LeftID:      left,
		RightID:     right,
		Score:       score,
		FieldScores: fieldScores,
		BlockingKey: bucketLabel,
	}, nil
}

// similarity compares a's field with b's candidate field. Missing values and
// values that do not fit the data type score 0.
func (e *Engine) similarity(ctx context.Context, cp comparePlan, a, b models.Record) float64 {
	x, errX := e.coerce(ctx, a, cp.def.FieldName, cp.dataType)
	y, errY := e.coerce(ctx, b, cp.def.OtherFieldName(), cp.dataType)
	if errX != nil || errY != nil {
		return 0
	}
	return compare.Optional(cp.comparer, x, y)
}

func (e *Engine) coerce(ctx context.Context, record models.Record, field string, dataType schema.DataType) (*string, error) {
	value := e.extractor.Value(record.Fields, field)
	if value == nil {
		return nil, nil
	}

	s, err := schema.Coerce(value, dataType)
	if err != nil {
		e.logger.WithContext(ctx).WithFields(map[string]any{
			"record_id": record.ID,
			"field":     field,
			"data_type": string(dataType),
		}).WithError(err).Debug("Field value does not fit its data type")
		return nil, err
	}
	return &s, nil
}
