package graph

import (
	vecerr "github.com/ZanzyTHEbar/neo4j-vector-go/pkg/errors"
)

// Node is a graph node as seen by the store: a stable element identifier,
// its labels and its properties. Nodes are read-only snapshots.
type Node struct {
	ElementID  string
	Labels     []string
	Properties Properties
}

// Record is one row returned by a statement.
type Record struct {
	Keys   []string
	Values []any
}

// NewRecord builds a record from parallel key/value pairs.
func NewRecord(kv ...any) Record {
	r := Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		r.Keys = append(r.Keys, key)
		r.Values = append(r.Values, kv[i+1])
	}
	return r
}

// Get returns the value of the named field.
func (r Record) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r Record) String(key string) (string, error) {
	v, err := r.field(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch(key, "string", v)
	}
	return s, nil
}

func (r Record) Bool(key string) (bool, error) {
	v, err := r.field(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, mismatch(key, "bool", v)
	}
	return b, nil
}

// Float accepts any numeric field.
func (r Record) Float(key string) (float64, error) {
	v, err := r.field(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, mismatch(key, "number", v)
	}
}

func (r Record) Int(key string) (int64, error) {
	v, err := r.field(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, mismatch(key, "integer", v)
	}
}

// Map returns a map field; a null field yields an empty map.
func (r Record) Map(key string) (map[string]any, error) {
	v, err := r.field(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, mismatch(key, "map", v)
	}
	return m, nil
}

func (r Record) Node(key string) (Node, error) {
	v, err := r.field(key)
	if err != nil {
		return Node{}, err
	}
	switch n := v.(type) {
	case Node:
		return n, nil
	case *Node:
		if n != nil {
			return *n, nil
		}
	}
	return Node{}, mismatch(key, "node", v)
}

func (r Record) field(key string) (any, error) {
	v, ok := r.Get(key)
	if !ok {
		return nil, vecerr.New(vecerr.CodeStoreResultInvalid, "record has no field "+key,
			vecerr.Field("field", key), vecerr.Field("keys", r.Keys))
	}
	return v, nil
}

func mismatch(key, want string, got any) error {
	return vecerr.Errorf(vecerr.CodeStoreResultInvalid, "record field %s: expected %s, got %T", key, want, got)
}
