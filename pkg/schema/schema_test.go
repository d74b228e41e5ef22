package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		dataType DataType
		expected string
	}{
		{"string passthrough", "Meier", DataTypeString, "Meier"},
		{"empty type means string", "Meier", "", "Meier"},
		{"int as string", 42, DataTypeString, "42"},
		{"int as number", 42, DataTypeNumber, "42"},
		{"float as number", 4.50, DataTypeNumber, "4.5"},
		{"numeric string", " 12.0 ", DataTypeNumber, "12"},
		{"uint as number", uint8(7), DataTypeNumber, "7"},
		{"iso date", "1980-05-17", DataTypeDate, "1980-05-17T00:00:00Z"},
		{"german date", "17.05.1980", DataTypeDate, "1980-05-17T00:00:00Z"},
		{"time value", time.Date(1980, 5, 17, 2, 0, 0, 0, time.FixedZone("CEST", 2*3600)), DataTypeDate, "1980-05-17T00:00:00Z"},
		{"bool", true, DataTypeBool, "true"},
		{"bool string", "FALSE", DataTypeBool, "false"},
		{"number as bool", 1, DataTypeBool, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.value, tt.dataType)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoerce_Failures(t *testing.T) {
	_, err := Coerce(nil, DataTypeString)
	assert.ErrorIs(t, err, ErrNullValue)

	_, err = Coerce("abc", DataTypeNumber)
	assert.ErrorIs(t, err, ErrCoercion)

	_, err = Coerce("yesterday", DataTypeDate)
	assert.ErrorIs(t, err, ErrCoercion)

	_, err = Coerce("maybe", DataTypeBool)
	assert.ErrorIs(t, err, ErrCoercion)

	_, err = Coerce("x", DataType("blob"))
	assert.ErrorIs(t, err, ErrCoercion)
}

func TestDataType_Valid(t *testing.T) {
	for _, dt := range DataTypes {
		assert.True(t, dt.Valid(), dt)
	}
	assert.True(t, DataType("").Valid())
	assert.False(t, DataType("int").Valid())
}
