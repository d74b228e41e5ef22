package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/schema"
)

const yamlProfile = `
name: customers
fields:
  - name: last_name
  - name: birthday
    data_type: date
key_definitions:
  - target_key_field: by_name
    fields:
      - name: last_name
        generator:
          type: soundex
  - fields:
      - name: birthday
        max_length: 4
compare_definitions:
  - field_name: last_name
    comparer:
      type: jaro_winkler
    weight: 2
  - field_name: birthday
aggregator:
  type: weighted_average
threshold: 0.75
`

const jsonProfile = `{
  "name": "customers",
  "key_definitions": [{"fields": [{"name": "last_name", "generator": {"type": "prefix", "options": {"length": 2}}}]}],
  "compare_definitions": [{"field_name": "last_name", "candidate_field_name": "maiden_name"}]
}`

func TestDecode_YAML(t *testing.T) {
	data, err := Decode(strings.NewReader(yamlProfile), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "customers", data.Name)
	assert.Equal(t, 0.75, data.Threshold)
	assert.Equal(t, "weighted_average", data.Aggregator.Type)
	require.Len(t, data.Fields, 2)
	assert.Equal(t, schema.DataTypeDate, data.Fields[1].DataType)

	require.Len(t, data.KeyDefinitions, 2)
	assert.Equal(t, "by_name", data.KeyDefinitions[0].TargetKeyField)
	assert.Equal(t, "soundex", data.KeyDefinitions[0].Fields[0].Generator.Type)
	assert.True(t, strings.HasPrefix(data.KeyDefinitions[1].TargetKeyField, models.KeyFieldPrefix))
	assert.Equal(t, "simple_text", data.KeyDefinitions[1].Fields[0].Generator.Type)
	assert.Equal(t, 4, data.KeyDefinitions[1].Fields[0].MaxLength)

	require.Len(t, data.CompareDefinitions, 2)
	assert.Equal(t, 2.0, data.CompareDefinitions[0].Weight)
	assert.Equal(t, models.DefaultWeight, data.CompareDefinitions[1].Weight)
	assert.Empty(t, data.CompareDefinitions[1].Comparer.Type)
}

func TestDecode_JSONDefaults(t *testing.T) {
	data, err := DecodeBytes([]byte(jsonProfile), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "maximum", data.Aggregator.Type)
	assert.Equal(t, models.DefaultThreshold, data.Threshold)
	assert.Equal(t, models.DefaultWeight, data.CompareDefinitions[0].Weight)
	assert.Equal(t, "maiden_name", data.CompareDefinitions[0].CandidateFieldName)
	assert.EqualValues(t, 2, data.KeyDefinitions[0].Fields[0].Generator.Options["length"])
	assert.NotEmpty(t, data.KeyDefinitions[0].TargetKeyField)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		format   Format
	}{
		{"malformed json", `{"name":`, FormatJSON},
		{"unknown json member", `{"name": "x", "colour": "blue"}`, FormatJSON},
		{"unknown yaml member", "name: x\ncolour: blue\n", FormatYAML},
		{"missing definitions", "name: x\n", FormatYAML},
		{"threshold out of range", strings.Replace(yamlProfile, "threshold: 0.75", "threshold: 3", 1), FormatYAML},
		{"undeclared field", strings.Replace(yamlProfile, "- field_name: birthday", "- field_name: city", 1), FormatYAML},
		{"unsupported format", jsonProfile, Format("toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.document), tt.format)
			require.Error(t, err)
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, expected := range map[string]Format{
		"a.json":    FormatJSON,
		"a.YAML":    FormatYAML,
		"dir/b.yml": FormatYAML,
	} {
		format, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, expected, format, path)
	}

	_, err := FormatFromPath("profile.txt")
	assert.True(t, errors.IsConfigError(err))
}

func TestSaveAndLoad(t *testing.T) {
	original, err := DecodeBytes([]byte(yamlProfile), FormatYAML)
	require.NoError(t, err)

	for _, name := range []string{"profile.json", "profile.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, original))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, original.KeyDefinitions, loaded.KeyDefinitions)
			assert.Equal(t, original.Threshold, loaded.Threshold)
			assert.Equal(t, len(original.CompareDefinitions), len(loaded.CompareDefinitions))
			assert.Equal(t, original.CompareDefinitions[0].Weight, loaded.CompareDefinitions[0].Weight)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
