package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/errors"
)

func TestSimpleText(t *testing.T) {
	tests := []struct {
		name      string
		maxLength int
		input     string
		expected  string
	}{
		{"transliterates and lowercases", 0, "Müller", "muller"},
		{"drops punctuation and spaces", 0, "O'Neil-Smith Jr.", "oneilsmithjr"},
		{"keeps digits", 0, "Main St 12", "mainst12"},
		{"truncates", 3, "Meier", "mei"},
		{"shorter than max length", 10, "Meier", "meier"},
		{"empty input", 3, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &SimpleText{MaxLength: tt.maxLength}
			assert.Equal(t, tt.expected, b.BuildKey(tt.input))
		})
	}
}

func TestTruncate_CountsRunes(t *testing.T) {
	assert.Equal(t, "mü", Truncate("müller", 2))
	assert.Equal(t, "müller", Truncate("müller", 0))
	assert.Equal(t, "", Truncate("", 4))
}

func TestCologne(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Meier", "67"},
		{"Mayer", "67"},
		{"Meyer", "67"},
		{"Müller", "657"},
		{"Müller-Lüdenscheidt", "65752682"},
		{"Wikipedia", "3412"},
		{"", ""},
		{"1234", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Cologne(tt.input))
		})
	}
}

func TestMatchrEncoders(t *testing.T) {
	assert.Equal(t, "R163", Soundex("Robert"))
	assert.Equal(t, Soundex("Rupert"), Soundex("Robert"))
	assert.Equal(t, "M460", Soundex("Müller"))
	assert.Equal(t, "", Soundex("  "))

	assert.Equal(t, Metaphone("Smith"), Metaphone("Smyth"))
	assert.Equal(t, "", Metaphone(""))
	assert.Equal(t, "", NYSIIS("--"))
	assert.Equal(t, "", Phonex(""))
	assert.NotEmpty(t, Phonex("Peter"))
}

func TestNew(t *testing.T) {
	t.Run("empty name uses simple text", func(t *testing.T) {
		b, err := New("", nil)
		require.NoError(t, err)
		assert.Equal(t, "meier", b.BuildKey("Meier"))
	})

	t.Run("prefix defaults to three runes", func(t *testing.T) {
		b, err := New("prefix", nil)
		require.NoError(t, err)
		assert.Equal(t, "mul", b.BuildKey("Müller"))
	})

	t.Run("prefix respects a smaller max length", func(t *testing.T) {
		b, err := New("prefix", map[string]any{"length": 4, "max_length": 2})
		require.NoError(t, err)
		assert.Equal(t, "mu", b.BuildKey("Müller"))
	})

	t.Run("phonetic with max length", func(t *testing.T) {
		b, err := New("soundex", map[string]any{"max_length": 1})
		require.NoError(t, err)
		assert.Equal(t, "M", b.BuildKey("Meier"))
	})

	t.Run("cologne groups spelling variants", func(t *testing.T) {
		b, err := New("cologne", nil)
		require.NoError(t, err)
		assert.Equal(t, b.BuildKey("Meier"), b.BuildKey("Mayer"))
	})

	t.Run("normalized chain", func(t *testing.T) {
		b, err := New("normalized", map[string]any{"normalizers": []string{"trim", "digits_only"}})
		require.NoError(t, err)
		assert.Equal(t, "4930", b.BuildKey(" +49 30 "))
	})

	t.Run("normalized requires known normalizers", func(t *testing.T) {
		_, err := New("normalized", map[string]any{"normalizers": []string{"nope"}})
		assert.True(t, errors.IsConfigError(err))
	})

	t.Run("negative max length is rejected", func(t *testing.T) {
		_, err := New("simple_text", map[string]any{"max_length": -1})
		assert.True(t, errors.IsConfigError(err))
	})

	t.Run("unknown generator", func(t *testing.T) {
		_, err := New("bogus", nil)
		assert.True(t, errors.IsConfigError(err))
	})
}

func TestNames(t *testing.T) {
	names := Names()
	for _, name := range []string{"simple_text", "prefix", "normalized", "soundex", "metaphone", "nysiis", "phonex", "cologne"} {
		assert.Contains(t, names, name)
	}
}
