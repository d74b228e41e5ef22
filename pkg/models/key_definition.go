package models

import (
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/keys"
)

// KeyFieldPrefix starts every generated TargetKeyField.
const KeyFieldPrefix = "keyfield_"

// KeyField is one component of a blocking key.
type KeyField struct {
	Field     `yaml:",inline"`
	Generator StrategySpec `json:"generator" yaml:"generator"`
	// MaxLength truncates the generated component; 0 keeps the generator's length.
	MaxLength int `json:"max_length,omitempty" yaml:"max_length,omitempty" validate:"gte=0"`
}

// NewKeyField uses the default simple text generator.
func NewKeyField(name string, maxLength int) KeyField {
	return KeyField{
		Field:     Field{Name: name},
		Generator: Strategy(keys.Default),
		MaxLength: maxLength,
	}
}

// GeneratorSpec returns the generator with MaxLength folded into its options.
func (k KeyField) GeneratorSpec() StrategySpec {
	spec := k.Generator.orDefault(keys.Default)
	if k.MaxLength > 0 {
		spec = spec.WithOption("max_length", k.MaxLength)
	}
	return spec
}

// KeyDefinition concatenates the keys of its fields, in order, into the
// value of TargetKeyField. Records sharing that value are compared.
type KeyDefinition struct {
	Fields         []KeyField `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
	TargetKeyField string     `json:"target_key_field" yaml:"target_key_field"`
}

// NewKeyDefinition creates a key definition with a unique TargetKeyField.
func NewKeyDefinition(fields ...KeyField) KeyDefinition {
	return KeyDefinition{
		Fields:         fields,
		TargetKeyField: NewTargetKeyField(),
	}
}

func NewTargetKeyField() string {
	return KeyFieldPrefix + uuid.NewString()
}
