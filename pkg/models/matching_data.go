package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/Gobusters/ectolinq"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/schema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultThreshold is the twin threshold of a profile that sets none.
const DefaultThreshold = 0.8

// MatchingData is a complete, persistable matching profile.
type MatchingData struct {
	Name string `json:"name" yaml:"name"`
	// Fields optionally declares the record schema. When present, every
	// referenced field must be declared here.
	Fields             []Field             `json:"fields,omitempty" yaml:"fields,omitempty" validate:"dive"`
	KeyDefinitions     []KeyDefinition     `json:"key_definitions" yaml:"key_definitions" validate:"dive"`
	CompareDefinitions []CompareDefinition `json:"compare_definitions" yaml:"compare_definitions" validate:"dive"`
	Aggregator         StrategySpec        `json:"aggregator" yaml:"aggregator"`
	Threshold          float64             `json:"threshold" yaml:"threshold"`
}

func NewMatchingData(name string) *MatchingData {
	return &MatchingData{
		Name:       name,
		Aggregator: Strategy(aggregate.Default),
		Threshold:  DefaultThreshold,
	}
}

func (m *MatchingData) Group() CompareDefinitionGroup {
	return CompareDefinitionGroup{
		CompareDefinitions: m.CompareDefinitions,
		Aggregator:         m.Aggregator.orDefault(aggregate.Default),
	}
}

// Field returns the declared field with the given name.
func (m *MatchingData) Field(name string) (Field, bool) {
	field := ectolinq.Find(m.Fields, func(f Field) bool { return f.Is(name) })
	return field, field.Name != ""
}

// ReferencedFields returns every field name used by a key or compare
// definition, in first-use order and without duplicates.
func (m *MatchingData) ReferencedFields() []string {
	seen := map[string]bool{}
	names := []string{}
	add := func(name string) {
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
	}

	for _, def := range m.KeyDefinitions {
		for _, field := range def.Fields {
			add(field.Name)
		}
	}
	for _, def := range m.CompareDefinitions {
		add(def.FieldName)
		add(def.CandidateFieldName)
	}
	return names
}

// Validate checks the profile on its own, without records or strategy
// registries, and reports every problem found.
func (m *MatchingData) Validate() error {
	errs := m.definitionErrors()
	if err := ValidateThreshold(m.Threshold); err != nil {
		errs = append(errs, err)
	}
	return errs.ErrOrNil()
}

// ValidateDefinitions is Validate without the threshold check, for callers
// that run the profile with a threshold of their own.
func (m *MatchingData) ValidateDefinitions() error {
	return m.definitionErrors().ErrOrNil()
}

// ValidateThreshold rejects thresholds outside [0, 1], NaN included.
func ValidateThreshold(threshold float64) *errors.ConfigError {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return errors.NewConfigErrorf("threshold %v is outside [0, 1]", threshold)
	}
	return nil
}

func (m *MatchingData) definitionErrors() errors.ConfigErrors {
	var errs errors.ConfigErrors

	if err := validate.Struct(m); err != nil {
		errs = append(errs, validationErrors(err)...)
	}

	if len(m.CompareDefinitions) == 0 {
		errs = append(errs, errors.NewConfigError("at least one compare definition is required"))
	}
	if len(m.KeyDefinitions) == 0 {
		errs = append(errs, errors.NewConfigError("at least one key definition is required"))
	}

	targets := map[string]bool{}
	for i, def := range m.KeyDefinitions {
		name := def.TargetKeyField
		if name == "" {
			errs = append(errs, errors.NewConfigError("target key field is empty").AddDefinition(fmt.Sprintf("key_definitions[%d]", i)))
			continue
		}
		if targets[name] {
			errs = append(errs, errors.NewConfigError("duplicate target key field").AddDefinition(name))
		}
		targets[name] = true
	}

	for _, field := range m.Fields {
		if !field.DataType.Valid() {
			errs = append(errs, unknownDataType(field.DataType).AddField(field.Name))
		}
	}
	for _, def := range m.KeyDefinitions {
		for _, field := range def.Fields {
			if !field.DataType.Valid() {
				errs = append(errs, unknownDataType(field.DataType).AddDefinition(def.TargetKeyField).AddField(field.Name))
			}
		}
	}
	for _, def := range m.CompareDefinitions {
		if !def.DataType.Valid() {
			errs = append(errs, unknownDataType(def.DataType).AddDefinition(def.Label()).AddField(def.FieldName))
		}
	}

	if len(m.Fields) > 0 {
		for _, name := range m.ReferencedFields() {
			if _, ok := m.Field(name); !ok {
				errs = append(errs, errors.NewConfigError("field is not declared in the profile schema").AddField(name))
			}
		}
	}

	return errs
}

func unknownDataType(dt schema.DataType) *errors.ConfigError {
	names := ectolinq.Map(schema.DataTypes, func(t schema.DataType) string { return string(t) })
	return errors.NewConfigErrorf("unknown data type '%s' (available: %s)", dt, strings.Join(names, ", "))
}

func validationErrors(err error) []*errors.ConfigError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*errors.ConfigError{errors.WrapConfigError(err)}
	}

	result := make([]*errors.ConfigError, 0, len(verrs))
	for _, fe := range verrs {
		result = append(result, errors.NewConfigErrorf("rule '%s' expected '%s', got '%v'", fe.Tag(), fe.Param(), fe.Value()).AddField(strings.TrimPrefix(fe.Namespace(), "MatchingData.")))
	}
	return result
}
