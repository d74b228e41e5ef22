package compare

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/schema"
)

func mustNew(t *testing.T, name string, options map[string]any) Comparer {
	t.Helper()
	c, err := New(name, options)
	require.NoError(t, err)
	return c
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"spelling variants", "Meier", "Müller", 0.3},
		{"case-insensitive identity", "Meier", "meier", 1},
		{"identical", "ab", "ab", 1},
		{"disjoint", "abc", "xyz", 0},
		{"reversed pair shares no bigram", "ab", "ba", 0},
		{"both empty", "", "", 1},
		{"one empty", "a", "", 0},
	}

	jaccard := mustNew(t, "jaccard", nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, jaccard.Compare(tt.a, tt.b), 1e-9)
		})
	}
}

func TestJaccard_CaseSensitive(t *testing.T) {
	jaccard := mustNew(t, "jaccard", map[string]any{"case_sensitive": true})
	// the leading M and Me bigrams differ from m and me; ei, ie, er and the trailing r are shared
	assert.InDelta(t, 0.5, jaccard.Compare("Meier", "meier"), 1e-9)
}

func TestJaccard_InvalidLength(t *testing.T) {
	_, err := New("jaccard", map[string]any{"ngram_length": 0})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))

	_, err = NewJaccard(0, false)
	assert.Error(t, err)
}

func TestSetComparers_WordTokenizer(t *testing.T) {
	options := map[string]any{"tokenizer": "words"}

	jaccard := mustNew(t, "jaccard", options)
	assert.InDelta(t, 1.0, jaccard.Compare("Hans Peter Meier", "Meier, Hans-Peter"), 1e-9)
	assert.InDelta(t, 2.0/3.0, jaccard.Compare("Hans Meier", "Hans Peter Meier"), 1e-9)

	dice := mustNew(t, "dice", options)
	assert.InDelta(t, 0.8, dice.Compare("Hans Meier", "Hans Peter Meier"), 1e-9)

	_, err := New("jaccard", map[string]any{"tokenizer": "chars"})
	assert.True(t, errors.IsConfigError(err))
}

func TestNGramComparers(t *testing.T) {
	dice := mustNew(t, "dice", nil)
	assert.InDelta(t, 6.0/13.0, dice.Compare("Meier", "Müller"), 1e-9)

	overlap := mustNew(t, "overlap", nil)
	assert.InDelta(t, 1.0, overlap.Compare("meier", "meiers"), 1e-9)
	assert.Equal(t, 0.0, overlap.Compare("meier", ""))
}

func TestEditDistanceComparers(t *testing.T) {
	lev := mustNew(t, "levenshtein", nil)
	assert.InDelta(t, 0.8, lev.Compare("Meier", "Meyer"), 1e-9)
	assert.InDelta(t, 4.0/7.0, lev.Compare("kitten", "sitting"), 1e-9)
	assert.InDelta(t, 0.6, lev.Compare("meier", "meire"), 1e-9)

	dl := mustNew(t, "damerau_levenshtein", nil)
	assert.InDelta(t, 0.8, dl.Compare("meier", "meire"), 1e-9)

	hamming := mustNew(t, "hamming", nil)
	assert.InDelta(t, 0.75, hamming.Compare("abcd", "abce"), 1e-9)
	assert.InDelta(t, 0.75, hamming.Compare("abc", "abcd"), 1e-9)
}

func TestSequenceComparers(t *testing.T) {
	jaro := mustNew(t, "jaro", nil)
	jw := mustNew(t, "jaro_winkler", nil)

	j := jaro.Compare("martha", "marhta")
	w := jw.Compare("martha", "marhta")
	assert.Greater(t, j, 0.9)
	assert.GreaterOrEqual(t, w, j)

	swg := mustNew(t, "smith_waterman_gotoh", nil)
	assert.InDelta(t, 1.0, swg.Compare("meier", "Meier GmbH"), 1e-9)

	_, err := New("smith_waterman_gotoh", map[string]any{"gap_penalty": 1})
	assert.True(t, errors.IsConfigError(err))
}

func TestPhonetic(t *testing.T) {
	soundex := mustNew(t, "phonetic", nil)
	assert.Equal(t, 1.0, soundex.Compare("Robert", "Rupert"))
	assert.Equal(t, 0.0, soundex.Compare("Meier", "Schmidt"))
	assert.Equal(t, 0.0, soundex.Compare("123", "456"))

	cologne := mustNew(t, "phonetic", map[string]any{"encoder": "cologne"})
	assert.Equal(t, 1.0, cologne.Compare("Meier", "Mayer"))

	_, err := New("phonetic", map[string]any{"encoder": "klingon"})
	assert.True(t, errors.IsConfigError(err))
}

func TestExact(t *testing.T) {
	exact := mustNew(t, "exact", nil)
	assert.Equal(t, 1.0, exact.Compare("Meier", "MEIER"))
	assert.Equal(t, 0.0, exact.Compare("Meier", "Meyer"))

	sensitive := mustNew(t, "exact", map[string]any{"case_sensitive": true})
	assert.Equal(t, 0.0, sensitive.Compare("Meier", "MEIER"))
}

func TestProximity(t *testing.T) {
	numeric := mustNew(t, "numeric", map[string]any{"max_diff": 10})
	assert.InDelta(t, 0.5, numeric.Compare("100", "105"), 1e-9)
	assert.Equal(t, 1.0, numeric.Compare("100", "100.0"))
	assert.Equal(t, 0.0, numeric.Compare("100", "200"))
	assert.Equal(t, 0.0, numeric.Compare("abc", "100"))

	date := mustNew(t, "date", map[string]any{"max_days": 10})
	assert.InDelta(t, 0.5, date.Compare("2020-01-01", "2020-01-06"), 1e-9)
	assert.Equal(t, 1.0, date.Compare("2020-01-01", "2020-01-01T00:00:00Z"))
	assert.Equal(t, 0.0, date.Compare("2020-01-01", "soon"))

	_, err := New("numeric", map[string]any{"max_diff": 0})
	assert.True(t, errors.IsConfigError(err))
}

func TestComparerProperties(t *testing.T) {
	pairs := [][2]string{
		{"Meier", "Müller"},
		{"Hans-Peter", "Hans Peter"},
		{"a", "abcdef"},
		{"Schmidt", "Schmitt"},
		{"", "x"},
		{"Straße", "Strasse"},
	}

	for _, name := range Names() {
		c := mustNew(t, name, nil)
		t.Run(name, func(t *testing.T) {
			for _, p := range pairs {
				ab := c.Compare(p[0], p[1])
				ba := c.Compare(p[1], p[0])
				assert.InDelta(t, ab, ba, 1e-9, "symmetry %v", p)
				assert.GreaterOrEqual(t, ab, 0.0)
				assert.LessOrEqual(t, ab, 1.0)
				assert.Equal(t, 1.0, c.Compare(p[0], p[0]), "identity %q", p[0])
			}
		})
	}
}

func TestOptional(t *testing.T) {
	jaccard := mustNew(t, "jaccard", nil)
	a, b := "Meier", "Meier"

	assert.Equal(t, 1.0, Optional(jaccard, &a, &b))
	assert.Equal(t, 0.0, Optional(jaccard, nil, &b))
	assert.Equal(t, 0.0, Optional(jaccard, &a, nil))
	assert.Equal(t, 0.0, Optional(jaccard, nil, nil))
}

func TestCached(t *testing.T) {
	var calls atomic.Int32
	inner := Func(func(a, b string) float64 {
		calls.Add(1)
		return 0.5
	})

	cached, err := NewCached(inner, 8)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cached.Compare("a", "b"))
	assert.Equal(t, 0.5, cached.Compare("a", "b"))
	assert.Equal(t, 0.5, cached.Compare("b", "a"))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, cached.Len())

	_, err = NewCached(inner, 0)
	assert.Error(t, err)
}

func TestNew_UnknownComparer(t *testing.T) {
	_, err := New("telepathy", nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))

	c, err := New("", nil)
	require.NoError(t, err)
	assert.IsType(t, &Jaccard{}, c)
}

func TestDefaultFor(t *testing.T) {
	assert.Equal(t, "jaccard", DefaultFor(""))
	assert.Equal(t, "jaccard", DefaultFor(schema.DataTypeString))
	assert.Equal(t, "numeric", DefaultFor(schema.DataTypeNumber))
	assert.Equal(t, "date", DefaultFor(schema.DataTypeDate))
	assert.Equal(t, "exact", DefaultFor(schema.DataTypeBool))
}
