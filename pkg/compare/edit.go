package compare

import (
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"
	"github.com/antzucaro/matchr"
)

// Levenshtein scores 1 - distance / longer length.
type Levenshtein struct {
	CaseSensitive bool
}

func (c *Levenshtein) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return fromDistance(levenshtein.ComputeDistance(a, b), a, b)
}

// DamerauLevenshtein is Levenshtein that also counts adjacent transpositions
// as a single edit, so "meier" and "meire" are one edit apart.
type DamerauLevenshtein struct {
	CaseSensitive bool
}

func (c *DamerauLevenshtein) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return fromDistance(matchr.DamerauLevenshtein(a, b), a, b)
}

// Hamming counts differing positions; the length difference counts as well.
type Hamming struct {
	CaseSensitive bool
	metric        *metrics.Hamming
}

func NewHamming(caseSensitive bool) *Hamming {
	return &Hamming{CaseSensitive: caseSensitive, metric: metrics.NewHamming()}
}

func (c *Hamming) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return clamp(c.metric.Compare(a, b))
}
