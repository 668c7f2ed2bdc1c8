package gojson

import "reflect"

// OrderedAny is a string-to-untyped-value mapping that remembers
// insertion order. Declaring a struct's extension-data member as
// OrderedAny (instead of map[string]any) makes unmatched properties
// round-trip in the order they appeared in the input.
type OrderedAny struct {
	keys []string
	vals map[string]any
}

// Set inserts or replaces the value for key. A new key is appended to
// the iteration order; an existing key keeps its position.
func (o *OrderedAny) Set(key string, v any) {
	if o.vals == nil {
		o.vals = make(map[string]any)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get returns the value for key and whether it is present.
func (o *OrderedAny) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Len reports the number of entries.
func (o *OrderedAny) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The returned slice is
// shared with o and must not be mutated.
func (o *OrderedAny) Keys() []string { return o.keys }

var orderedAnyType = reflect.TypeOf(OrderedAny{})
