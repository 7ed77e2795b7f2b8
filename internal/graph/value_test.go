package graph

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueText(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
		ok   bool
	}{
		{"string", String("cat"), "cat", true},
		{"empty string", String(""), "", true},
		{"integer", Integer(42), "42", true},
		{"integer beyond float precision", Integer(9007199254740993), "9007199254740993", true},
		{"large integer", Integer(1234567890123456), "1234567890123456", true},
		{"integral number", Number(42), "42", true},
		{"negative integral", Number(-3), "-3", true},
		{"fraction", Number(1.5), "1.5", true},
		{"large", Number(1e21), "1e+21", true},
		{"true", Bool(true), "true", true},
		{"false", Bool(false), "false", true},
		{"null", Null{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Text()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFromAny(t *testing.T) {
	assert.Equal(t, Null{}, FromAny(nil))
	assert.Equal(t, String("x"), FromAny("x"))
	assert.Equal(t, Bool(true), FromAny(true))
	assert.Equal(t, Integer(7), FromAny(int64(7)))
	assert.Equal(t, Integer(7), FromAny(7))
	assert.Equal(t, Integer(9007199254740993), FromAny(int64(9007199254740993)))
	assert.Equal(t, Number(float64(uint64(math.MaxUint64))), FromAny(uint64(math.MaxUint64)))
	assert.Equal(t, Integer(12), FromAny(json.Number("12")))
	assert.Equal(t, Number(0.25), FromAny(float32(0.25)))
	assert.Equal(t, Number(2.5), FromAny(json.Number("2.5")))
	assert.Equal(t, String("[a b]"), FromAny([]any{"a", "b"}))
	assert.Equal(t, String("1s"), FromAny(time.Second))
	assert.Equal(t, String("y"), FromAny(String("y")))
}

func TestValueAny(t *testing.T) {
	assert.Equal(t, "s", String("s").Any())
	assert.Equal(t, 1.5, Number(1.5).Any())
	assert.Equal(t, int64(3), Integer(3).Any())
	assert.Equal(t, true, Bool(true).Any())
	assert.Nil(t, Null{}.Any())
}

func TestPropertiesGet(t *testing.T) {
	props := PropertiesFromMap(map[string]any{"name": "cat", "age": int64(3), "gone": nil})
	assert.Equal(t, String("cat"), props.Get("name"))
	assert.Equal(t, Integer(3), props.Get("age"))
	assert.Equal(t, Null{}, props.Get("gone"))
	assert.Equal(t, Null{}, props.Get("missing"))
}
