// Package aggregate folds the per-field similarities of a candidate pair
// into a single score.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/Ramsey-B/fern/pkg/strategy"
)

// ErrInvalidAggregationInput is wrapped by every AggregationError.
var ErrInvalidAggregationInput = errors.New("invalid aggregation input")

// AggregationError reports input an aggregator cannot fold.
type AggregationError struct {
	Aggregator string
	Message    string
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s aggregator: %s", e.Aggregator, e.Message)
}

func (e *AggregationError) Unwrap() error {
	return ErrInvalidAggregationInput
}

// Aggregator combines similarities, optionally weighted, into one score in [0, 1].
type Aggregator interface {
	Aggregate(similarities, weights []float64) (float64, error)
}

// Default is the aggregator used when none is configured.
const Default = "maximum"

var registry = strategy.NewRegistry[Aggregator]("aggregator")

func Register(name string, factory strategy.Factory[Aggregator]) {
	registry.Register(name, factory)
}

// New builds the named aggregator. An empty name selects Default.
func New(name string, options map[string]any) (Aggregator, error) {
	if name == "" {
		name = Default
	}
	return registry.New(name, options)
}

func Names() []string {
	return registry.Names()
}

func init() {
	register("maximum", Maximum{})
	register("minimum", Minimum{})
	register("average", Average{})
	register("weighted_average", WeightedAverage{})
	register("weighted_product", WeightedProduct{})
}

func register(name string, aggregator Aggregator) {
	Register(name, func(options map[string]any) (Aggregator, error) {
		if err := strategy.DecodeOptions(options, &struct{}{}); err != nil {
			return nil, err
		}
		return aggregator, nil
	})
}

// Maximum returns the highest similarity. Weights are ignored.
type Maximum struct{}

func (Maximum) Aggregate(similarities, _ []float64) (float64, error) {
	if err := checkNotEmpty("maximum", similarities); err != nil {
		return 0, err
	}

	result := similarities[0]
	for _, s := range similarities[1:] {
		result = math.Max(result, s)
	}
	return result, nil
}

// Minimum returns the lowest similarity. Weights are ignored.
type Minimum struct{}

func (Minimum) Aggregate(similarities, _ []float64) (float64, error) {
	if err := checkNotEmpty("minimum", similarities); err != nil {
		return 0, err
	}

	result := similarities[0]
	for _, s := range similarities[1:] {
		result = math.Min(result, s)
	}
	return result, nil
}

// Average returns the arithmetic mean. Weights are ignored.
type Average struct{}

func (Average) Aggregate(similarities, _ []float64) (float64, error) {
	if err := checkNotEmpty("average", similarities); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, s := range similarities {
		sum += s
	}
	return sum / float64(len(similarities)), nil
}

// WeightedAverage returns Σ w·s / Σ w.
type WeightedAverage struct{}

func (WeightedAverage) Aggregate(similarities, weights []float64) (float64, error) {
	total, err := checkWeights("weighted_average", similarities, weights)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for i, s := range similarities {
		sum += s * weights[i]
	}
	return clamp(sum / total), nil
}

// WeightedProduct is the weighted geometric mean Π s^(w/Σw). A zero
// similarity with a positive weight vetoes the pair.
type WeightedProduct struct{}

func (WeightedProduct) Aggregate(similarities, weights []float64) (float64, error) {
	total, err := checkWeights("weighted_product", similarities, weights)
	if err != nil {
		return 0, err
	}

	logSum := 0.0
	for i, s := range similarities {
		if weights[i] == 0 {
			continue
		}
		if s <= 0 {
			return 0, nil
		}
		logSum += weights[i] / total * math.Log(s)
	}
	return clamp(math.Exp(logSum)), nil
}

func checkNotEmpty(name string, similarities []float64) error {
	if len(similarities) == 0 {
		return &AggregationError{Aggregator: name, Message: "no similarities to aggregate"}
	}
	return nil
}

func checkWeights(name string, similarities, weights []float64) (float64, error) {
	if err := checkNotEmpty(name, similarities); err != nil {
		return 0, err
	}
	if len(weights) != len(similarities) {
		return 0, &AggregationError{Aggregator: name, Message: fmt.Sprintf("%d weights for %d similarities", len(weights), len(similarities))}
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return 0, &AggregationError{Aggregator: name, Message: fmt.Sprintf("negative weight %v", w)}
		}
		total += w
	}
	if total == 0 {
		return 0, &AggregationError{Aggregator: name, Message: "weights sum to zero"}
	}
	return total, nil
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(1, score))
}
