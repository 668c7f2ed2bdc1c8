package gojson

import (
	"reflect"

	"github.com/rnats/gojson/internal/jsonwire"
	"github.com/rnats/gojson/jsontext"
)

// Marshal encodes v as UTF-8 JSON using the default resolver.
func Marshal(v any) ([]byte, error) {
	return defaultResolver.Marshal(v)
}

// MarshalWide encodes v as UTF-16 JSON code units using the default
// resolver, for hosts (e.g. a JavaScript interop boundary) that want
// the wide lane directly instead of re-decoding from UTF-8.
func MarshalWide(v any) ([]uint16, error) {
	return defaultResolver.MarshalWide(v)
}

// Marshal encodes v as UTF-8 JSON using r's policy and cache.
func (r *Resolver) Marshal(v any) ([]byte, error) {
	w := jsontext.NewWriter[uint8](jsontext.WriterOptionsFromPolicy(r.policy))
	if err := marshalInto[uint8](r, w, v); err != nil {
		return nil, err
	}
	return w.Finalize(), nil
}

// MarshalWide encodes v as UTF-16 JSON code units using r's policy and
// cache.
func (r *Resolver) MarshalWide(v any) ([]uint16, error) {
	w := jsontext.NewWriter[uint16](jsontext.WriterOptionsFromPolicy(r.policy))
	if err := marshalInto[uint16](r, w, v); err != nil {
		return nil, err
	}
	return w.Finalize(), nil
}

// marshalInto resolves v's dynamic type through the resolver cache and
// invokes its marshal closure.
func marshalInto[S jsontext.Symbol](r *Resolver, w *jsontext.Writer[S], v any) error {
	if v == nil {
		return w.WriteNull()
	}
	rv := addressable(reflect.ValueOf(v))
	pair, err := r.resolve(rv.Type(), jsonwire.WidthOf[S]())
	if err != nil {
		return err
	}
	return marshalFuncFor[S](pair)(w, rv)
}

// addressable copies a bare struct value into an addressable slot so
// the struct formatter's offset-based member accessors have a base
// pointer to work from; everything reachable through the copy (nested
// structs, slice elements) is then addressable too.
func addressable(rv reflect.Value) reflect.Value {
	if rv.Kind() == reflect.Struct && !rv.CanAddr() {
		tmp := reflect.New(rv.Type()).Elem()
		tmp.Set(rv)
		return tmp
	}
	return rv
}
