package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a node property value. The set of implementations is closed:
// String, Integer, Number, Bool and Null.
type Value interface {
	// Text returns the textual form used when building embedding input.
	// ok is false for Null.
	Text() (text string, ok bool)
	// Any returns the plain Go value (string, int64, float64, bool or nil).
	Any() any

	isValue()
}

type (
	String  string
	Integer int64
	Number  float64
	Bool    bool
	Null    struct{}
)

func (v String) Text() (string, bool) { return string(v), true }
func (v String) Any() any             { return string(v) }
func (String) isValue()               {}

func (v Integer) Text() (string, bool) { return strconv.FormatInt(int64(v), 10), true }
func (v Integer) Any() any             { return int64(v) }
func (Integer) isValue()               {}

// Text renders integral floats without a fraction ("42") and everything
// else in the shortest form that round-trips ("1.5", "1e+21").
func (v Number) Text() (string, bool) {
	f := float64(v)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10), true
	}
	return strconv.FormatFloat(f, 'g', -1, 64), true
}
func (v Number) Any() any { return float64(v) }
func (Number) isValue()   {}

func (v Bool) Text() (string, bool) { return strconv.FormatBool(bool(v)), true }
func (v Bool) Any() any             { return bool(v) }
func (Bool) isValue()               {}

func (Null) Text() (string, bool) { return "", false }
func (Null) Any() any             { return nil }
func (Null) isValue()             {}

// FromAny converts a driver value into a Value. Scalars map onto their
// variant; anything else (lists, temporal and spatial types) is stringified.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Integer(x)
	case int8:
		return Integer(x)
	case int16:
		return Integer(x)
	case int32:
		return Integer(x)
	case int64:
		return Integer(x)
	case uint:
		return unsigned(uint64(x))
	case uint8:
		return Integer(x)
	case uint16:
		return Integer(x)
	case uint32:
		return Integer(x)
	case uint64:
		return unsigned(x)
	case float32:
		return Number(x)
	case float64:
		return Number(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Integer(i)
		}
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case fmt.Stringer:
		return String(x.String())
	default:
		return String(fmt.Sprint(x))
	}
}

func unsigned(u uint64) Value {
	if u > math.MaxInt64 {
		return Number(u)
	}
	return Integer(u)
}

// Properties is a property map keyed by name.
type Properties map[string]Value

// Get returns the named property, or Null when it is absent.
func (p Properties) Get(name string) Value {
	if v, ok := p[name]; ok && v != nil {
		return v
	}
	return Null{}
}

// PropertiesFromMap converts a driver property map.
func PropertiesFromMap(m map[string]any) Properties {
	props := make(Properties, len(m))
	for k, v := range m {
		props[k] = FromAny(v)
	}
	return props
}
