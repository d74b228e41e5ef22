package compare

import (
	"github.com/adrg/strutil/metrics"
)

type Jaro struct {
	CaseSensitive bool
	metric        *metrics.Jaro
}

func NewJaro(caseSensitive bool) *Jaro {
	return &Jaro{CaseSensitive: caseSensitive, metric: metrics.NewJaro()}
}

func (c *Jaro) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return clamp(c.metric.Compare(a, b))
}

// JaroWinkler boosts the Jaro score of values sharing a common prefix,
// which suits short names.
type JaroWinkler struct {
	CaseSensitive bool
	metric        *metrics.JaroWinkler
}

func NewJaroWinkler(caseSensitive bool) *JaroWinkler {
	return &JaroWinkler{CaseSensitive: caseSensitive, metric: metrics.NewJaroWinkler()}
}

func (c *JaroWinkler) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return clamp(c.metric.Compare(a, b))
}

// SmithWatermanGotoh is a local alignment score normalized by the shorter
// value, so a value contained in the other scores high.
type SmithWatermanGotoh struct {
	CaseSensitive bool
	metric        *metrics.SmithWatermanGotoh
}

func NewSmithWatermanGotoh(caseSensitive bool, gapPenalty float64) *SmithWatermanGotoh {
	metric := metrics.NewSmithWatermanGotoh()
	metric.GapPenalty = gapPenalty
	return &SmithWatermanGotoh{CaseSensitive: caseSensitive, metric: metric}
}

func (c *SmithWatermanGotoh) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return clamp(c.metric.Compare(a, b))
}
