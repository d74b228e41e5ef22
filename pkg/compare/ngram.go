package compare

import (
	"github.com/adrg/strutil/metrics"

	"github.com/Ramsey-B/fern/pkg/tokenize"
)

// Jaccard is the size of the intersection over the size of the union of
// the two values' n-gram sets. It is the default comparer.
//
// "meier" and "müller" share the leading "m" bigram, "er" and the trailing
// "r" bigram out of ten distinct ones, which gives 0.3.
type Jaccard struct {
	CaseSensitive bool
	Tokenizer     tokenize.Tokenizer
}

// NewJaccard creates a Jaccard comparer over n-grams of the given length.
func NewJaccard(length int, caseSensitive bool) (*Jaccard, error) {
	tokenizer, err := tokenize.NewNGram(length)
	if err != nil {
		return nil, err
	}
	return &Jaccard{CaseSensitive: caseSensitive, Tokenizer: tokenizer}, nil
}

func (c *Jaccard) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}

	intersection, union := tokenize.Overlap(
		tokenize.Set(c.Tokenizer.Tokenize(a)),
		tokenize.Set(c.Tokenizer.Tokenize(b)),
	)
	if intersection == 0 {
		return 0
	}
	return clamp(float64(intersection) / float64(union))
}

// Dice is the Sørensen-Dice coefficient 2|A∩B| / (|A|+|B|) over n-gram sets.
type Dice struct {
	CaseSensitive bool
	Tokenizer     tokenize.Tokenizer
}

func NewDice(length int, caseSensitive bool) (*Dice, error) {
	tokenizer, err := tokenize.NewNGram(length)
	if err != nil {
		return nil, err
	}
	return &Dice{CaseSensitive: caseSensitive, Tokenizer: tokenizer}, nil
}

func (c *Dice) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}

	setA := tokenize.Set(c.Tokenizer.Tokenize(a))
	setB := tokenize.Set(c.Tokenizer.Tokenize(b))
	intersection, _ := tokenize.Overlap(setA, setB)
	return clamp(2 * float64(intersection) / float64(len(setA)+len(setB)))
}

// Overlap is the Szymkiewicz-Simpson coefficient |A∩B| / min(|A|,|B|).
type Overlap struct {
	CaseSensitive bool
	metric        *metrics.OverlapCoefficient
}

func NewOverlap(length int, caseSensitive bool) *Overlap {
	metric := metrics.NewOverlapCoefficient()
	metric.NgramSize = length
	return &Overlap{CaseSensitive: caseSensitive, metric: metric}
}

func (c *Overlap) Compare(a, b string) float64 {
	a, b, score, done := prepare(a, b, c.CaseSensitive)
	if done {
		return score
	}
	return clamp(c.metric.Compare(a, b))
}
