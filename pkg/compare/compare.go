// Package compare scores the similarity of two field values.
//
// Every comparer returns a value in [0, 1] where 1 means identical. String
// comparers are case-insensitive unless configured otherwise, score two
// identical (or two empty) values as 1 and a value against an empty one as 0.
// Comparers hold no mutable state and are safe for concurrent use.
package compare

import (
	"math"
	"strings"

	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/strategy"
)

// Comparer scores two values.
type Comparer interface {
	Compare(a, b string) float64
}

// Func adapts a plain function to Comparer.
type Func func(a, b string) float64

func (f Func) Compare(a, b string) float64 {
	return f(a, b)
}

// Default is the comparer used when a compare definition names none.
const Default = "jaccard"

var typeDefaults = map[schema.DataType]string{
	schema.DataTypeString: Default,
	schema.DataTypeNumber: "numeric",
	schema.DataTypeDate:   "date",
	schema.DataTypeBool:   "exact",
}

// DefaultFor returns the comparer used for values of dt when a compare
// definition names none.
func DefaultFor(dt schema.DataType) string {
	if name, ok := typeDefaults[dt.OrDefault()]; ok {
		return name
	}
	return Default
}

var registry = strategy.NewRegistry[Comparer]("comparer")

// Register adds a comparer factory under name.
func Register(name string, factory strategy.Factory[Comparer]) {
	registry.Register(name, factory)
}

// New builds the named comparer from its options.
func New(name string, options map[string]any) (Comparer, error) {
	if name == "" {
		name = Default
	}
	return registry.New(name, options)
}

// Names lists the registered comparers.
func Names() []string {
	return registry.Names()
}

// Optional compares two nullable values. A missing value never matches.
func Optional(c Comparer, a, b *string) float64 {
	if a == nil || b == nil {
		return 0
	}
	return c.Compare(*a, *b)
}

// prepare applies the rules shared by all string comparers. done is true
// when the score is already decided.
func prepare(a, b string, caseSensitive bool) (string, string, float64, bool) {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	if a == b {
		return a, b, 1, true
	}
	if a == "" || b == "" {
		return a, b, 0, true
	}
	return a, b, 0, false
}

func clamp(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

// fromDistance turns an edit distance into a similarity over the longer rune length.
func fromDistance(distance int, a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return clamp(1 - float64(distance)/float64(longest))
}

// Exact scores 1 for equal values and 0 otherwise.
type Exact struct {
	CaseSensitive bool
}

func (c *Exact) Compare(a, b string) float64 {
	score, _ := decided(a, b, c.CaseSensitive)
	return score
}

func decided(a, b string, caseSensitive bool) (float64, bool) {
	_, _, score, done := prepare(a, b, caseSensitive)
	return score, done
}
