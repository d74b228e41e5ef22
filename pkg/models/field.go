package models

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/schema"
)

// Field declares a record attribute and its data type. Names are matched
// against record fields case-insensitively.
type Field struct {
	Name     string          `json:"name" yaml:"name" validate:"required"`
	DataType schema.DataType `json:"data_type,omitempty" yaml:"data_type,omitempty"`
}

func (f Field) Is(name string) bool {
	return strings.EqualFold(f.Name, name)
}

// Record is one input row. The engine never modifies it.
type Record struct {
	ID     string         `json:"id" yaml:"id"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}
