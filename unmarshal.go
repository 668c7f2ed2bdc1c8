package gojson

import (
	"errors"
	"reflect"

	"github.com/rnats/gojson/internal/jsonwire"
	"github.com/rnats/gojson/jsontext"
)

// ErrInvalidTarget is returned by Unmarshal/UnmarshalWide when v is not
// a non-nil pointer.
var ErrInvalidTarget = errors.New("gojson: destination must be a non-nil pointer")

// Unmarshal decodes UTF-8 JSON data into v using the default resolver.
func Unmarshal(data []byte, v any) error {
	return defaultResolver.Unmarshal(data, v)
}

// UnmarshalWide decodes UTF-16 JSON code units into v using the
// default resolver.
func UnmarshalWide(data []uint16, v any) error {
	return defaultResolver.UnmarshalWide(data, v)
}

// Unmarshal decodes UTF-8 JSON data into v using r's policy and cache.
// Anything but whitespace (and, per policy, comments) after the
// top-level value is an error; use UnmarshalPrefix to decode a document
// with a trailing remainder.
func (r *Resolver) Unmarshal(data []byte, v any) error {
	rv, err := targetValue(v)
	if err != nil {
		return err
	}
	rd := jsontext.NewReader[uint8](data, jsontext.ReaderOptionsFromPolicy(r.policy))
	if err := unmarshalInto[uint8](r, rd, rv); err != nil {
		return err
	}
	return rd.CheckEOF()
}

// UnmarshalWide decodes UTF-16 JSON code units into v using r's policy
// and cache.
func (r *Resolver) UnmarshalWide(data []uint16, v any) error {
	rv, err := targetValue(v)
	if err != nil {
		return err
	}
	rd := jsontext.NewReader[uint16](data, jsontext.ReaderOptionsFromPolicy(r.policy))
	if err := unmarshalInto[uint16](r, rd, rv); err != nil {
		return err
	}
	return rd.CheckEOF()
}

// UnmarshalPrefix decodes a single top-level JSON document from the
// front of data into v and reports the document's byte length. The
// reader stops immediately past the document's last symbol; trailing
// whitespace and any bytes after it are untouched.
func (r *Resolver) UnmarshalPrefix(data []byte, v any) (n int64, err error) {
	rv, err := targetValue(v)
	if err != nil {
		return 0, err
	}
	rd := jsontext.NewReader[uint8](data, jsontext.ReaderOptionsFromPolicy(r.policy))
	if err := unmarshalInto[uint8](r, rd, rv); err != nil {
		return rd.Offset(), err
	}
	return rd.Offset(), nil
}

func targetValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv.Elem(), nil
}

func unmarshalInto[S jsontext.Symbol](r *Resolver, rd *jsontext.Reader[S], rv reflect.Value) error {
	pair, err := r.resolve(rv.Type(), jsonwire.WidthOf[S]())
	if err != nil {
		return err
	}
	return unmarshalFuncFor[S](pair)(rd, rv)
}
