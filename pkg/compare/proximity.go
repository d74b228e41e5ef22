package compare

import (
	"math"

	"github.com/Ramsey-B/fern/pkg/schema"
)

// NumericProximity decays linearly from 1 for equal numbers to 0 at MaxDiff.
// Values that do not parse as numbers score 0.
type NumericProximity struct {
	MaxDiff float64
}

func (c *NumericProximity) Compare(a, b string) float64 {
	if score, done := decided(a, b, true); done {
		return score
	}

	x, err := schema.ToNumber(a)
	if err != nil {
		return 0
	}
	y, err := schema.ToNumber(b)
	if err != nil {
		return 0
	}
	return linearDecay(math.Abs(x-y), c.MaxDiff)
}

// DateProximity decays linearly from 1 for the same instant to 0 at MaxDays.
type DateProximity struct {
	MaxDays float64
}

func (c *DateProximity) Compare(a, b string) float64 {
	if score, done := decided(a, b, true); done {
		return score
	}

	x, err := schema.ParseDate(a)
	if err != nil {
		return 0
	}
	y, err := schema.ParseDate(b)
	if err != nil {
		return 0
	}
	return linearDecay(math.Abs(x.Sub(y).Hours()/24), c.MaxDays)
}

func linearDecay(diff, limit float64) float64 {
	if diff == 0 {
		return 1
	}
	if diff >= limit {
		return 0
	}
	return clamp(1 - diff/limit)
}
