package models

import (
	"encoding/json"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/compare"
	"github.com/Ramsey-B/fern/pkg/schema"
)

// DefaultWeight applies to compare definitions that do not set one.
const DefaultWeight = 1.0

// CompareDefinition scores one field of a candidate pair.
type CompareDefinition struct {
	// Name labels the score in match output; defaults to FieldName.
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	FieldName string `json:"field_name" yaml:"field_name" validate:"required"`
	// CandidateFieldName compares FieldName of one record against this field
	// of the other. Empty means the same field on both sides.
	CandidateFieldName string          `json:"candidate_field_name,omitempty" yaml:"candidate_field_name,omitempty"`
	DataType           schema.DataType `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Comparer           StrategySpec    `json:"comparer" yaml:"comparer"`
	Weight             float64         `json:"weight" yaml:"weight" validate:"gte=0"`
}

func NewCompareDefinition(fieldName string, comparer StrategySpec) CompareDefinition {
	return CompareDefinition{
		FieldName: fieldName,
		Comparer:  comparer,
		Weight:    DefaultWeight,
	}
}

func (c CompareDefinition) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.FieldName
}

func (c CompareDefinition) OtherFieldName() string {
	if c.CandidateFieldName != "" {
		return c.CandidateFieldName
	}
	return c.FieldName
}

// ComparerSpec returns the configured comparer or, when none is set, the
// default for the definition's data type. fieldType is the type declared in
// the profile schema; DataType takes precedence over it.
func (c CompareDefinition) ComparerSpec(fieldType schema.DataType) StrategySpec {
	dt := c.DataType
	if dt == "" {
		dt = fieldType
	}
	return c.Comparer.orDefault(compare.DefaultFor(dt))
}

// UnmarshalJSON applies DefaultWeight when the document omits the weight.
func (c *CompareDefinition) UnmarshalJSON(data []byte) error {
	type plain CompareDefinition
	decoded := plain{Weight: DefaultWeight}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = CompareDefinition(decoded)
	return nil
}

// UnmarshalYAML applies DefaultWeight when the document omits the weight.
func (c *CompareDefinition) UnmarshalYAML(unmarshal func(any) error) error {
	type plain CompareDefinition
	decoded := plain{Weight: DefaultWeight}
	if err := unmarshal(&decoded); err != nil {
		return err
	}
	*c = CompareDefinition(decoded)
	return nil
}

// CompareDefinitionGroup scores a pair with every definition and folds the
// scores with Aggregator.
type CompareDefinitionGroup struct {
	CompareDefinitions []CompareDefinition `json:"compare_definitions" yaml:"compare_definitions"`
	Aggregator         StrategySpec        `json:"aggregator" yaml:"aggregator"`
}

// NewCompareDefinitionGroup uses the maximum aggregator.
func NewCompareDefinitionGroup(definitions ...CompareDefinition) CompareDefinitionGroup {
	return CompareDefinitionGroup{
		CompareDefinitions: definitions,
		Aggregator:         Strategy(aggregate.Default),
	}
}

func (g CompareDefinitionGroup) AggregatorSpec() StrategySpec {
	return g.Aggregator.orDefault(aggregate.Default)
}

// Weights returns the definition weights in order.
func (g CompareDefinitionGroup) Weights() []float64 {
	weights := make([]float64, len(g.CompareDefinitions))
	for i, def := range g.CompareDefinitions {
		weights[i] = def.Weight
	}
	return weights
}
