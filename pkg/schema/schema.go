// Package schema converts raw record values into the canonical string form
// of a field's declared data type.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

type DataType string

const (
	DataTypeString DataType = "string"
	DataTypeNumber DataType = "number"
	DataTypeDate   DataType = "date"
	DataTypeBool   DataType = "bool"
)

// DataTypes lists every supported data type.
var DataTypes = []DataType{DataTypeString, DataTypeNumber, DataTypeDate, DataTypeBool}

// DateLayout is the canonical form dates are coerced to.
const DateLayout = time.RFC3339

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2006/01/02",
}

var (
	ErrNullValue = errors.New("value is null")
	ErrCoercion  = errors.New("value cannot be coerced")
)

// Valid reports whether dt is a supported data type. The empty type counts as string.
func (dt DataType) Valid() bool {
	switch dt {
	case "", DataTypeString, DataTypeNumber, DataTypeDate, DataTypeBool:
		return true
	}
	return false
}

// OrDefault returns dt, or DataTypeString when dt is empty.
func (dt DataType) OrDefault() DataType {
	if dt == "" {
		return DataTypeString
	}
	return dt
}

// Coerce converts value into the canonical string form of dt. Numbers are
// formatted without trailing zeros, dates as RFC 3339 in UTC and bools as
// "true"/"false".
func Coerce(value any, dt DataType) (string, error) {
	if value == nil {
		return "", ErrNullValue
	}

	switch dt.OrDefault() {
	case DataTypeString:
		return ToString(value), nil
	case DataTypeNumber:
		f, err := ToNumber(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case DataTypeDate:
		t, err := ToDate(value)
		if err != nil {
			return "", err
		}
		return t.UTC().Format(DateLayout), nil
	case DataTypeBool:
		b, err := ToBool(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	}

	return "", fmt.Errorf("%w: unknown data type '%s'", ErrCoercion, dt)
}

// ToString renders any value as text.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.UTC().Format(DateLayout)
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func ToNumber(value any) (float64, error) {
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: '%s' is not a number", ErrCoercion, s)
		}
		return f, nil
	}

	rv := reflect.ValueOf(value)
	if value == nil || !isNumericKind(rv.Kind()) {
		return 0, fmt.Errorf("%w: expected number, got %T", ErrCoercion, value)
	}
	return rv.Convert(reflect.TypeOf(float64(0))).Float(), nil
}

func ToDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, ErrNullValue
		}
		return *v, nil
	case string:
		return ParseDate(v)
	}
	return time.Time{}, fmt.Errorf("%w: expected date, got %T", ErrCoercion, value)
}

// ParseDate accepts RFC 3339 and a handful of common date layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: '%s' is not a date", ErrCoercion, value)
}

func ToBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: '%s' is not a bool", ErrCoercion, v)
		}
		return b, nil
	}

	if f, err := ToNumber(value); err == nil {
		return f != 0, nil
	}
	return false, fmt.Errorf("%w: expected bool, got %T", ErrCoercion, value)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
