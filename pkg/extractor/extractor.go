// Package extractor resolves field references against record data.
//
// Field names match case-insensitively (an exact match wins over a folded
// one). Dotted paths reach into nested objects and "[i]" indexes lists, so
// "address.city" and "emails[0]" are valid references.
package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/schema"
)

// ArrayHandling decides how a list value is reduced to a single value.
type ArrayHandling string

const (
	ArrayFirst ArrayHandling = "first"
	ArrayLast  ArrayHandling = "last"
	ArrayJoin  ArrayHandling = "join"
)

type Extractor struct {
	arrays    ArrayHandling
	separator string
}

type Option func(*Extractor)

// WithArrayHandling sets how list values are reduced. The separator only
// applies to ArrayJoin.
func WithArrayHandling(handling ArrayHandling, separator string) Option {
	return func(e *Extractor) {
		e.arrays = handling
		e.separator = separator
	}
}

// New creates an Extractor that joins list values with a single space.
func New(opts ...Option) *Extractor {
	e := &Extractor{arrays: ArrayJoin, separator: " "}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract resolves path in data. A missing key yields nil without error;
// indexing into something that is not a list is an error.
func (e *Extractor) Extract(data any, path string) (any, error) {
	if path == "" {
		return data, nil
	}

	current := data
	for _, seg := range parsePath(path) {
		var err error
		current, err = e.step(current, seg)
		if err != nil {
			return nil, fmt.Errorf("resolve '%s': %w", path, err)
		}
		if current == nil {
			return nil, nil
		}
	}
	return current, nil
}

// Value resolves path in a record and reduces lists to a single value.
// Unresolvable paths yield nil.
func (e *Extractor) Value(fields map[string]any, path string) any {
	value, err := e.Extract(fields, path)
	if err != nil || value == nil {
		return nil
	}

	if list, ok := toList(value); ok {
		return e.reduce(list)
	}
	return value
}

// Has reports whether path resolves to a non-nil value.
func (e *Extractor) Has(fields map[string]any, path string) bool {
	value, err := e.Extract(fields, path)
	return err == nil && value != nil
}

func (e *Extractor) reduce(list []any) any {
	if len(list) == 0 {
		return nil
	}

	switch e.arrays {
	case ArrayFirst:
		return list[0]
	case ArrayLast:
		return list[len(list)-1]
	default:
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if item == nil {
				continue
			}
			parts = append(parts, schema.ToString(item))
		}
		return strings.Join(parts, e.separator)
	}
}

type segment struct {
	key   string
	index int
	// indexed is false when the segment has no "[i]" suffix
	indexed bool
}

func parsePath(path string) []segment {
	var segments []segment
	for _, raw := range splitPath(path) {
		seg := segment{key: raw}
		if open := strings.Index(raw, "["); open != -1 && strings.HasSuffix(raw, "]") {
			if i, err := strconv.Atoi(raw[open+1 : len(raw)-1]); err == nil {
				seg.key = raw[:open]
				seg.index = i
				seg.indexed = true
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// splitPath splits on dots outside brackets.
func splitPath(path string) []string {
	var parts []string
	var current strings.Builder

	depth := 0
	for _, c := range path {
		switch {
		case c == '[':
			depth++
		case c == ']' && depth > 0:
			depth--
		case c == '.' && depth == 0:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			continue
		}
		current.WriteRune(c)
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func (e *Extractor) step(data any, seg segment) (any, error) {
	value := data

	if seg.key != "" {
		switch v := data.(type) {
		case map[string]any:
			value = lookup(v, seg.key)
		case map[string]string:
			s, ok := lookupString(v, seg.key)
			if !ok {
				return nil, nil
			}
			value = s
		default:
			return nil, fmt.Errorf("cannot read key '%s' from %T", seg.key, data)
		}
	}

	if !seg.indexed || value == nil {
		return value, nil
	}

	list, ok := toList(value)
	if !ok {
		return nil, fmt.Errorf("expected a list for index %d, got %T", seg.index, value)
	}
	if seg.index < 0 || seg.index >= len(list) {
		return nil, nil
	}
	return list[seg.index], nil
}

func lookup(m map[string]any, key string) any {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func lookupString(m map[string]string, key string) (string, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func toList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		return list, true
	case []string:
		result := make([]any, len(list))
		for i, s := range list {
			result[i] = s
		}
		return result, true
	case []map[string]any:
		result := make([]any, len(list))
		for i, m := range list {
			result[i] = m
		}
		return result, true
	}
	return nil, false
}
