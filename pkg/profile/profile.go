// Package profile reads and writes MatchingData documents.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/keys"
	"github.com/Ramsey-B/fern/pkg/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.NewConfigErrorf("unsupported profile file extension '%s'", filepath.Ext(path))
}

// Load reads, defaults and validates the profile stored at path.
func Load(path string) (*models.MatchingData, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	data, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", path, err)
	}
	return data, nil
}

// Decode reads one profile document. Members the document omits get their
// defaults, then the profile is validated.
func Decode(r io.Reader, format Format) (*models.MatchingData, error) {
	data := models.NewMatchingData("")

	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(data); err != nil {
			return nil, errors.NewConfigErrorf("invalid json profile: %v", err)
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(r)
		decoder.KnownFields(true)
		if err := decoder.Decode(data); err != nil && err != io.EOF {
			return nil, errors.NewConfigErrorf("invalid yaml profile: %v", err)
		}
	default:
		return nil, errors.NewConfigErrorf("unsupported profile format '%s'", format)
	}

	ApplyDefaults(data)
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(document []byte, format Format) (*models.MatchingData, error) {
	return Decode(bytes.NewReader(document), format)
}

// ApplyDefaults fills the members a hand-written profile may leave out.
// Comparers stay empty so the engine can pick one per data type.
func ApplyDefaults(data *models.MatchingData) {
	if data.Aggregator.Type == "" {
		data.Aggregator.Type = aggregate.Default
	}
	for i := range data.KeyDefinitions {
		def := &data.KeyDefinitions[i]
		if def.TargetKeyField == "" {
			def.TargetKeyField = models.NewTargetKeyField()
		}
		for j := range def.Fields {
			if def.Fields[j].Generator.Type == "" {
				def.Fields[j].Generator.Type = keys.Default
			}
		}
	}
}

// Encode writes data in the given format.
func Encode(w io.Writer, data *models.MatchingData, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()
	}
	return errors.NewConfigErrorf("unsupported profile format '%s'", format)
}

// Save writes data to path, in the format its extension names.
func Save(path string, data *models.MatchingData) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, data, format); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
