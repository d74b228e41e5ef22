package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/errors"
)

type testOptions struct {
	Length        int  `json:"length" validate:"gte=1"`
	CaseSensitive bool `json:"case_sensitive"`
}

func TestRegistry_New(t *testing.T) {
	registry := NewRegistry[int]("widget")
	registry.Register("Double", func(options map[string]any) (int, error) {
		opts := testOptions{Length: 2}
		if err := DecodeOptions(options, &opts); err != nil {
			return 0, err
		}
		return opts.Length * 2, nil
	})

	t.Run("names are case-insensitive", func(t *testing.T) {
		v, err := registry.New("double", nil)
		require.NoError(t, err)
		assert.Equal(t, 4, v)
		assert.True(t, registry.Has("DOUBLE"))
	})

	t.Run("options override defaults", func(t *testing.T) {
		v, err := registry.New("double", map[string]any{"length": 5})
		require.NoError(t, err)
		assert.Equal(t, 10, v)
	})

	t.Run("unknown name is a config error", func(t *testing.T) {
		_, err := registry.New("triple", nil)
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "strategy 'triple'")
		assert.Contains(t, err.Error(), "unknown widget")
	})

	t.Run("invalid options carry the strategy name", func(t *testing.T) {
		_, err := registry.New("double", map[string]any{"length": 0})
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "strategy 'double'")
	})

	assert.Equal(t, []string{"double"}, registry.Names())
}

func TestDecodeOptions(t *testing.T) {
	t.Run("empty options keep defaults", func(t *testing.T) {
		opts := testOptions{Length: 3}
		require.NoError(t, DecodeOptions(nil, &opts))
		assert.Equal(t, 3, opts.Length)
	})

	t.Run("unknown option is rejected", func(t *testing.T) {
		opts := testOptions{Length: 3}
		err := DecodeOptions(map[string]any{"lenght": 4}, &opts)
		assert.True(t, errors.IsConfigError(err))
	})

	t.Run("wrong type is rejected", func(t *testing.T) {
		opts := testOptions{Length: 3}
		err := DecodeOptions(map[string]any{"length": "four"}, &opts)
		assert.True(t, errors.IsConfigError(err))
	})

	t.Run("validation failure names the rule", func(t *testing.T) {
		opts := testOptions{}
		err := DecodeOptions(map[string]any{"case_sensitive": true}, &opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gte")
	})
}
