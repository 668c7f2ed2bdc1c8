package gojson

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/rnats/gojson/internal/jsonwire"
	"github.com/rnats/gojson/jsontext"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	decimalType  = reflect.TypeOf(jsonwire.Decimal{})
	versionType  = reflect.TypeOf(jsonwire.Version{})
	charType     = reflect.TypeOf(jsonwire.Char(0))
)

// isPrimitive reports whether t is handled directly by
// marshalPrimitive/unmarshalPrimitive rather than by the composite
// formatter generator or a container formatter.
func isPrimitive(t reflect.Type) bool {
	switch t {
	case timeType, durationType, uuidType, decimalType, versionType, charType:
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// marshalPrimitive writes one of the scalar types bound directly onto
// the writer, delegating the wire-format details to internal/jsonwire.
func marshalPrimitive[S jsontext.Symbol](w *jsontext.Writer[S], rv reflect.Value) error {
	t := rv.Type()
	switch t {
	case timeType:
		tm := rv.Interface().(time.Time)
		hasOffset, isUTC := offsetFlags(tm)
		return w.WriteString(string(jsonwire.AppendDateTime(nil, tm, hasOffset, isUTC)))
	case durationType:
		return w.WriteString(string(jsonwire.AppendTimeSpan(nil, rv.Interface().(time.Duration))))
	case uuidType:
		var buf [36]byte
		id := rv.Interface().(uuid.UUID)
		lit := jsonwire.AppendGUID(buf[:0], id)
		return w.WriteString(string(lit))
	case decimalType:
		d := rv.Interface().(jsonwire.Decimal)
		lit := jsonwire.AppendDecimal(nil, d)
		return w.WriteRawASCII(lit)
	case versionType:
		v := rv.Interface().(jsonwire.Version)
		return w.WriteString(v.String())
	case charType:
		// A char is written as a one-character JSON string; the string
		// codec applies any escaping the character needs. Dispatch on
		// charType must come before the generic integer kinds below,
		// which would otherwise claim Char's underlying uint16.
		content, err := jsonwire.AppendChar(nil, rv.Interface().(jsonwire.Char))
		if err != nil {
			return wrapSemanticError(t, "invalid char", err)
		}
		return w.WriteString(string(content))
	}
	switch t.Kind() {
	case reflect.Bool:
		return w.WriteBool(rv.Bool())
	case reflect.String:
		return w.WriteString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		lit := jsonwire.AppendInt(nil, rv.Int())
		return w.WriteRawASCII(lit)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		lit := jsonwire.AppendUint(nil, rv.Uint())
		return w.WriteRawASCII(lit)
	case reflect.Float32:
		lit, err := jsonwire.AppendFloat(nil, rv.Float(), 32)
		if err != nil {
			return wrapSemanticError(t, "cannot format non-finite float", err)
		}
		return w.WriteRawASCII(lit)
	case reflect.Float64:
		lit, err := jsonwire.AppendFloat(nil, rv.Float(), 64)
		if err != nil {
			return wrapSemanticError(t, "cannot format non-finite float", err)
		}
		return w.WriteRawASCII(lit)
	}
	return newSemanticError(t, fmt.Sprintf("%s is not a primitive", t))
}

// unmarshalPrimitive parses the next JSON value directly into rv for
// one of the scalar types marshalPrimitive handles. A JSON null leaves
// the destination at its zero value.
func unmarshalPrimitive[S jsontext.Symbol](r *jsontext.Reader[S], rv reflect.Value) error {
	t := rv.Type()
	if kind, err := r.PeekKind(); err == nil && kind == jsontext.KindNull {
		if err := r.ReadNull(); err != nil {
			return err
		}
		rv.Set(reflect.Zero(t))
		return nil
	}
	switch t {
	case timeType:
		raw, err := r.ReadStringRaw()
		if err != nil {
			return err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return err
		}
		tm, _, _, err := jsonwire.ParseDateTime(toBytes(body))
		if err != nil {
			return wrapSemanticError(t, "invalid date-time", err)
		}
		rv.Set(reflect.ValueOf(tm))
		return nil
	case durationType:
		raw, err := r.ReadStringRaw()
		if err != nil {
			return err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return err
		}
		d, err := jsonwire.ParseTimeSpan(toBytes(body))
		if err != nil {
			return wrapSemanticError(t, "invalid time span", err)
		}
		rv.Set(reflect.ValueOf(d))
		return nil
	case uuidType:
		raw, err := r.ReadStringRaw()
		if err != nil {
			return err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return err
		}
		id, err := jsonwire.ParseGUID(toBytes(body))
		if err != nil {
			return wrapSemanticError(t, "invalid GUID", err)
		}
		rv.Set(reflect.ValueOf(id))
		return nil
	case decimalType:
		raw, err := r.ReadNumberRaw()
		if err != nil {
			return err
		}
		d, err := jsonwire.ParseDecimal(toBytes(raw))
		if err != nil {
			return wrapSemanticError(t, "invalid decimal", err)
		}
		rv.Set(reflect.ValueOf(d))
		return nil
	case versionType:
		raw, err := r.ReadStringRaw()
		if err != nil {
			return err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return err
		}
		v, err := jsonwire.ParseVersion(string(toBytes(body)))
		if err != nil {
			return wrapSemanticError(t, "invalid version", err)
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	case charType:
		raw, err := r.ReadStringRaw()
		if err != nil {
			return err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return err
		}
		c, err := jsonwire.ParseChar([]byte(jsontext.ToGoString[S](body)))
		if err != nil {
			return wrapSemanticError(t, "invalid char", err)
		}
		rv.Set(reflect.ValueOf(c))
		return nil
	}
	switch t.Kind() {
	case reflect.Bool:
		v, err := r.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil
	case reflect.String:
		raw, err := r.ReadStringRaw()
		if err != nil {
			return err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return err
		}
		rv.SetString(jsontext.ToGoString[S](body))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		raw, err := r.ReadNumberRaw()
		if err != nil {
			return err
		}
		n, err := jsonwire.ParseInt(toBytes(raw), t.Bits())
		if err != nil {
			return wrapSemanticError(t, "invalid integer", err)
		}
		rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		raw, err := r.ReadNumberRaw()
		if err != nil {
			return err
		}
		n, err := jsonwire.ParseUint(toBytes(raw), t.Bits())
		if err != nil {
			return wrapSemanticError(t, "invalid unsigned integer", err)
		}
		rv.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		raw, err := r.ReadNumberRaw()
		if err != nil {
			return err
		}
		f, err := jsonwire.ParseFloat(toBytes(raw), t.Bits())
		if err != nil {
			return wrapSemanticError(t, "invalid float", err)
		}
		rv.SetFloat(f)
		return nil
	}
	return newSemanticError(t, fmt.Sprintf("%s is not a primitive", t))
}

// offsetFlags recovers the ISO-8601 offset disposition from a
// time.Time's location: UTC emits 'Z', the host's local zone emits no
// offset (unspecified/local), and any other zone emits an explicit
// ±hh:mm.
func offsetFlags(t time.Time) (hasOffset, isUTC bool) {
	switch t.Location() {
	case time.UTC:
		return true, true
	case time.Local:
		return false, false
	default:
		return true, false
	}
}

// toBytes widens a generic symbol span down to bytes for the helpers in
// internal/jsonwire that only need the ASCII-range content (numbers,
// and the body of strings holding primitives such as dates and GUIDs,
// which are themselves pure ASCII once unquoted).
func toBytes[S jsontext.Symbol](s []S) []byte {
	b := make([]byte, len(s))
	for i, c := range s {
		b[i] = byte(c)
	}
	return b
}
