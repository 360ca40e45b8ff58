package model

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
)

// Record is a schema-less JSON object that remembers key insertion order.
// Records are treated as immutable: With and Without return copies.
type Record struct {
	m *orderedmap.OrderedMap
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{m: newOrderedMap()}
}

func newOrderedMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// AsRecord reports whether v is a decoded JSON object and wraps it.
// Nested objects come out of the decoder as orderedmap.OrderedMap values,
// records built here are stored as pointers; both are accepted.
func AsRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case orderedmap.OrderedMap:
		return Record{m: &m}, true
	case *orderedmap.OrderedMap:
		if m != nil {
			return Record{m: m}, true
		}
	case Record:
		if m.m != nil {
			return m, true
		}
	}
	return Record{}, false
}

// Keys returns the field names in insertion order.
func (r Record) Keys() []string {
	if r.m == nil {
		return nil
	}
	return r.m.Keys()
}

// Has reports whether key is present, whatever its value.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Get returns the raw decoded value of key.
func (r Record) Get(key string) (any, bool) {
	if r.m == nil {
		return nil, false
	}
	return r.m.Get(key)
}

// Text returns the text value of key. A JSON null reads as "".
// A present value of any other type is an error.
func (r Record) Text(key string) (string, bool, error) {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return "", ok, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", true, fmt.Errorf("field %q is %s, want string", key, KindOf(v))
	}
	return s, true, nil
}

// With returns a copy of r with key set to value. An existing key keeps its
// position, a new key is appended.
func (r Record) With(key string, value any) Record {
	c := r.clone()
	c.m.Set(key, value)
	return c
}

// Without returns a copy of r minus the given keys. Absent keys are ignored.
func (r Record) Without(keys ...string) Record {
	c := r.clone()
	for _, k := range keys {
		c.m.Delete(k)
	}
	return c
}

// Value returns r in the form the encoder and AsRecord understand.
func (r Record) Value() any {
	if r.m == nil {
		return newOrderedMap()
	}
	return r.m
}

func (r Record) clone() Record {
	c := NewRecord()
	for _, k := range r.Keys() {
		v, _ := r.m.Get(k)
		c.m.Set(k, v)
	}
	return c
}

// KindOf names the JSON type of a decoded value for error messages.
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case orderedmap.OrderedMap, *orderedmap.OrderedMap, Record:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
