package gojson

import (
	"reflect"

	"github.com/rnats/gojson/internal/jsonwire"
	"github.com/rnats/gojson/jsontext"
)

// marshalDynamic implements the runtime-decision formatter for
// polymorphic members: a value is discriminated by its actual type at
// write time rather than at formatter-build time, which is the only
// option for an interface member since its declared type carries no
// layout information.
func marshalDynamic[S jsontext.Symbol](r *Resolver, w *jsontext.Writer[S], v any) error {
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

// unmarshalDynamic decodes the next JSON value into an untyped Go
// value using the conventional schemaless mapping (object ->
// map[string]any, array -> []any, string -> string, number -> float64,
// true/false -> bool, null -> nil), for destinations declared as `any`
// or another interface type with no methods.
func unmarshalDynamic[S jsontext.Symbol](r *Resolver, rd *jsontext.Reader[S]) (any, error) {
	kind, err := rd.PeekKind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case jsontext.KindNull:
		return nil, rd.ReadNull()
	case jsontext.KindBool:
		return rd.ReadBool()
	case jsontext.KindNumber:
		raw, err := rd.ReadNumberRaw()
		if err != nil {
			return nil, err
		}
		return jsonwire.ParseFloat(toBytes(raw), 64)
	case jsontext.KindString:
		raw, err := rd.ReadStringRaw()
		if err != nil {
			return nil, err
		}
		body, err := jsonwire.AppendUnquote[S](nil, raw)
		if err != nil {
			return nil, err
		}
		return jsontext.ToGoString[S](body), nil
	case jsontext.KindBeginArray:
		if err := rd.ReadBeginArray(); err != nil {
			return nil, err
		}
		out := []any{}
		for {
			done, err := rd.ReadEndArrayOrComma()
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			v, err := unmarshalDynamic[S](r, rd)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	case jsontext.KindBeginObject:
		if err := rd.ReadBeginObject(); err != nil {
			return nil, err
		}
		out := map[string]any{}
		for {
			done, err := rd.ReadEndObjectOrComma()
			if err != nil {
				return nil, err
			}
			if done {
				return out, nil
			}
			nameRaw, err := rd.ReadMemberNameRaw()
			if err != nil {
				return nil, err
			}
			nameBody, err := jsonwire.AppendUnquote[S](nil, nameRaw)
			if err != nil {
				return nil, err
			}
			v, err := unmarshalDynamic[S](r, rd)
			if err != nil {
				return nil, err
			}
			out[jsontext.ToGoString[S](nameBody)] = v
		}
	default:
		return nil, newSemanticError(nil, "invalid value kind "+kind.String())
	}
}
