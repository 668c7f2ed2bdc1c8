package gojson

import (
	"reflect"
	"sort"
	"unicode/utf16"
	"unsafe"

	"github.com/rnats/gojson/internal/fields"
	"github.com/rnats/gojson/internal/jsonwire"
	"github.com/rnats/gojson/jsontext"
)

// marshalFuncFor/unmarshalFuncFor recover the S-specific closure boxed
// in a formatterPair (see resolver.go's comment on why it's boxed as
// any in the first place: a single cache entry must be able to serve
// whichever lane it was built for without the cache itself becoming
// generic over S).
func marshalFuncFor[S jsontext.Symbol](p *formatterPair) func(*jsontext.Writer[S], reflect.Value) error {
	return p.marshal.(func(*jsontext.Writer[S], reflect.Value) error)
}

func unmarshalFuncFor[S jsontext.Symbol](p *formatterPair) func(*jsontext.Reader[S], reflect.Value) error {
	return p.unmarshal.(func(*jsontext.Reader[S], reflect.Value) error)
}

func widenByte[S jsontext.Symbol](c byte) S {
	var z S
	switch any(z).(type) {
	case uint8:
		return any(c).(S)
	case uint16:
		return any(uint16(c)).(S)
	default:
		return z
	}
}

// buildFormatter is buildFormatterG's non-generic entry point, picking
// the type argument for the cache key's width (1 or 2) at the one
// place a runtime int has to become a compile-time type parameter.
func buildFormatter(r *Resolver, t reflect.Type, width int, p *formatterPair) error {
	if width == 1 {
		return buildFormatterG[uint8](r, t, p)
	}
	return buildFormatterG[uint16](r, t, p)
}

// buildFormatterG is the composite formatter generator. It consults
// the resolver's per-type overrides first, then assembles not just
// struct formatters but the container and pointer-indirection
// formatters too: for a collection it returns a parametric formatter
// specialized on the element type, resolved lazily at call time.
func buildFormatterG[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	mfn := r.marshalers.lookup(t)
	ufn := r.unmarshalers.lookup(t)
	if mfn == nil || ufn == nil {
		if err := buildBaseFormatter[S](r, t, p); err != nil {
			return err
		}
	}
	if mfn != nil {
		p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error {
			raw, err := mfn(rv.Interface())
			if err != nil {
				return wrapSemanticError(t, "marshal override failed", err)
			}
			return w.WriteRawValue(raw)
		}
	}
	if ufn != nil {
		p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error {
			raw, err := rd.ReadValueRaw()
			if err != nil {
				return err
			}
			v, err := ufn([]byte(jsontext.ToGoString[S](raw)))
			if err != nil {
				return wrapSemanticError(t, "unmarshal override failed", err)
			}
			rv.Set(reflect.ValueOf(v))
			return nil
		}
	}
	return nil
}

func buildBaseFormatter[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	if isPrimitive(t) {
		p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error { return marshalPrimitive[S](w, rv) }
		p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error { return unmarshalPrimitive[S](rd, rv) }
		return nil
	}
	switch t.Kind() {
	case reflect.Ptr:
		return buildPointerFormatter[S](r, t, p)
	case reflect.Struct:
		return buildStructFormatter[S](r, t, p)
	case reflect.Slice, reflect.Array:
		return buildSliceFormatter[S](r, t, p)
	case reflect.Map:
		return buildMapFormatter[S](r, t, p)
	case reflect.Interface:
		return buildInterfaceFormatter[S](r, t, p)
	default:
		return &UnsupportedTypeError{Type: t}
	}
}

func buildPointerFormatter[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	elemType := t.Elem()
	width := jsonwire.WidthOf[S]()

	p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error {
		if rv.IsNil() {
			return w.WriteNull()
		}
		elemPair, err := r.resolve(elemType, width)
		if err != nil {
			return err
		}
		return marshalFuncFor[S](elemPair)(w, rv.Elem())
	}
	p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error {
		kind, err := rd.PeekKind()
		if err != nil {
			return err
		}
		if kind == jsontext.KindNull {
			if err := rd.ReadNull(); err != nil {
				return err
			}
			rv.Set(reflect.Zero(t))
			return nil
		}
		elemPair, err := r.resolve(elemType, width)
		if err != nil {
			return err
		}
		if rv.IsNil() {
			rv.Set(reflect.New(elemType))
		}
		return unmarshalFuncFor[S](elemPair)(rd, rv.Elem())
	}
	return nil
}

func buildSliceFormatter[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	elemType := t.Elem()
	width := jsonwire.WidthOf[S]()
	isArray := t.Kind() == reflect.Array

	// []byte marshals/unmarshals as its own special case in most JSON
	// libraries (base64); this codec keeps it a plain JSON array of
	// numbers instead, to avoid introducing a binary encoding silently.

	p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error {
		if !isArray && rv.IsNil() {
			return w.WriteNull()
		}
		elemPair, err := r.resolve(elemType, width)
		if err != nil {
			return err
		}
		marshalElem := marshalFuncFor[S](elemPair)
		if err := w.WriteBeginArray(); err != nil {
			return err
		}
		for i := 0; i < rv.Len(); i++ {
			if err := marshalElem(w, rv.Index(i)); err != nil {
				return err
			}
		}
		return w.WriteEndArray()
	}
	p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error {
		kind, err := rd.PeekKind()
		if err != nil {
			return err
		}
		if kind == jsontext.KindNull {
			if err := rd.ReadNull(); err != nil {
				return err
			}
			rv.Set(reflect.Zero(t))
			return nil
		}
		elemPair, err := r.resolve(elemType, width)
		if err != nil {
			return err
		}
		unmarshalElem := unmarshalFuncFor[S](elemPair)
		if err := rd.ReadBeginArray(); err != nil {
			return err
		}
		if !isArray {
			rv.Set(reflect.MakeSlice(t, 0, 0))
		}
		i := 0
		for {
			done, err := rd.ReadEndArrayOrComma()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if isArray {
				if i >= rv.Len() {
					if err := rd.SkipValue(); err != nil {
						return err
					}
					i++
					continue
				}
				if err := unmarshalElem(rd, rv.Index(i)); err != nil {
					return err
				}
				i++
				continue
			}
			elem := reflect.New(elemType).Elem()
			if err := unmarshalElem(rd, elem); err != nil {
				return err
			}
			rv.Set(reflect.Append(rv, elem))
		}
	}
	return nil
}

func buildMapFormatter[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	if t.Key().Kind() != reflect.String {
		return &UnsupportedTypeError{Type: t}
	}
	elemType := t.Elem()
	width := jsonwire.WidthOf[S]()

	p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error {
		if rv.IsNil() {
			return w.WriteNull()
		}
		elemPair, err := r.resolve(elemType, width)
		if err != nil {
			return err
		}
		marshalElem := marshalFuncFor[S](elemPair)
		if err := w.WriteBeginObject(); err != nil {
			return err
		}
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		for _, name := range names {
			if err := w.WriteString(name); err != nil {
				return err
			}
			if err := marshalElem(w, rv.MapIndex(reflect.ValueOf(name).Convert(t.Key()))); err != nil {
				return err
			}
		}
		return w.WriteEndObject()
	}
	p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error {
		elemPair, err := r.resolve(elemType, width)
		if err != nil {
			return err
		}
		unmarshalElem := unmarshalFuncFor[S](elemPair)
		if err := rd.ReadBeginObject(); err != nil {
			return err
		}
		rv.Set(reflect.MakeMap(t))
		for {
			done, err := rd.ReadEndObjectOrComma()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			nameRaw, err := rd.ReadMemberNameRaw()
			if err != nil {
				return err
			}
			nameBody, err := jsonwire.AppendUnquote[S](nil, nameRaw)
			if err != nil {
				return err
			}
			key := reflect.ValueOf(jsontext.ToGoString[S](nameBody)).Convert(t.Key())
			elem := reflect.New(elemType).Elem()
			if err := unmarshalElem(rd, elem); err != nil {
				return err
			}
			rv.SetMapIndex(key, elem)
		}
	}
	return nil
}

func buildInterfaceFormatter[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error {
		if rv.IsNil() {
			return w.WriteNull()
		}
		return marshalDynamic[S](r, w, rv.Interface())
	}
	p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error {
		if t.NumMethod() != 0 {
			return newSemanticError(t, "cannot decode into a non-empty interface without a registered concrete type")
		}
		v, err := unmarshalDynamic[S](r, rd)
		if err != nil {
			return err
		}
		if v == nil {
			rv.Set(reflect.Zero(t))
		} else {
			rv.Set(reflect.ValueOf(v))
		}
		return nil
	}
	return nil
}

// memberPlan pairs a member descriptor with its precomputed
// `"name"` emission span (quotes included, no colon) in lane S and its unwrapped Go
// type, filled in once when the owning struct's formatter is built.
type memberPlan[S jsontext.Symbol] struct {
	fields.Member
	verbatim []S
	goType   reflect.Type
}

// memberValue reads the member's field out of rv. Direct members of an
// addressable struct go through the reflect2 accessor: one offset add
// on the struct's base pointer instead of reflect.Value.Field's
// per-call flag and type bookkeeping. Promoted members and
// non-addressable values fall back to the index-path walk.
func memberValue[S jsontext.Symbol](rv reflect.Value, pl *memberPlan[S]) reflect.Value {
	if pl.Field != nil && rv.CanAddr() {
		p := pl.Field.UnsafeGet(unsafe.Pointer(rv.UnsafeAddr()))
		return reflect.NewAt(pl.goType, p).Elem()
	}
	return fieldByIndex(rv, pl.Index)
}

// memberValueAlloc is memberValue for the decode side, where rv is
// always addressable and nil embedded pointers along a promoted path
// must be allocated before assignment.
func memberValueAlloc[S jsontext.Symbol](rv reflect.Value, pl *memberPlan[S]) reflect.Value {
	if pl.Field != nil {
		p := pl.Field.UnsafeGet(unsafe.Pointer(rv.UnsafeAddr()))
		return reflect.NewAt(pl.goType, p).Elem()
	}
	return fieldByIndexAlloc(rv, pl.Index)
}

func buildStructFormatter[S jsontext.Symbol](r *Resolver, t reflect.Type, p *formatterPair) error {
	width := jsonwire.WidthOf[S]()
	desc, err := fields.Describe(t, fields.Naming(r.policy.Naming))
	if err != nil {
		return err
	}
	p.desc = desc
	dispatcher := fields.NewDispatcher(desc.Members)

	plans := make([]memberPlan[S], len(desc.Members))
	for i, m := range desc.Members {
		plans[i].Member = m
		plans[i].goType = m.Type.Type1()
		verbatim := make([]S, 0, len(m.EscapedName)+2)
		verbatim = append(verbatim, widenByte[S]('"'))
		verbatim = jsontext.AppendString[S](verbatim, string(m.EscapedName))
		verbatim = append(verbatim, widenByte[S]('"'))
		plans[i].verbatim = verbatim
	}

	var extType reflect.Type
	if desc.Extension != nil {
		extType = desc.Extension.Type.Type1()
	}
	declared := make(map[string]bool, len(desc.Members))
	for _, m := range desc.Members {
		declared[m.JSONName] = true
	}

	p.marshal = func(w *jsontext.Writer[S], rv reflect.Value) error {
		if desc.Recursive {
			if err := w.IncDepth(); err != nil {
				return wrapRecursionError(t, err)
			}
			defer w.DecDepth()
		}
		if err := w.WriteBeginObject(); err != nil {
			return err
		}
		for i := range plans {
			pl := &plans[i]
			fv := memberValue(rv, pl)
			if !fv.IsValid() {
				continue
			}
			if pl.OmitEmpty && isEmptyValue(fv) {
				continue
			}
			if pl.OmitZero && fv.IsZero() {
				continue
			}
			if r.policy.ExcludeNulls && excludedNull(fv) {
				continue
			}
			childPair, err := r.resolve(pl.goType, width)
			if err != nil {
				return err
			}
			if err := w.WriteMemberName(pl.verbatim); err != nil {
				return err
			}
			if err := marshalFuncFor[S](childPair)(w, fv); err != nil {
				return err
			}
		}
		if desc.Extension != nil && r.policy.ExtensionData {
			extField := fieldByIndex(rv, desc.Extension.Index)
			if err := marshalExtension[S](r, w, extField, declared); err != nil {
				return err
			}
		}
		return w.WriteEndObject()
	}

	p.unmarshal = func(rd *jsontext.Reader[S], rv reflect.Value) error {
		if desc.Recursive {
			if err := rd.IncDepth(); err != nil {
				return wrapRecursionError(t, err)
			}
			defer rd.DecDepth()
		}
		if err := rd.ReadBeginObject(); err != nil {
			return err
		}
		var extField reflect.Value
		if desc.Extension != nil && r.policy.ExtensionData {
			extField = fieldByIndexAlloc(rv, desc.Extension.Index)
			if extField.IsValid() && extField.Kind() == reflect.Map && extField.IsNil() {
				extField.Set(reflect.MakeMap(extType))
			}
		}
		for {
			done, err := rd.ReadEndObjectOrComma()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			nameRaw, err := rd.ReadMemberNameRaw()
			if err != nil {
				return err
			}
			// The fast path in internal/jsonwire.ConsumeString leaves
			// simple ASCII names slice-able directly out of nameRaw
			// (minus the surrounding quotes); names needing unescaping
			// go through AppendUnquote like any other string.
			nameBytes, err := dispatchName(nameRaw)
			if err != nil {
				return err
			}
			idx, ok := dispatcher.Match(nameBytes)
			if !ok {
				if extField.IsValid() {
					nameBody, err := jsonwire.AppendUnquote[S](nil, nameRaw)
					if err != nil {
						return err
					}
					v, err := unmarshalDynamic[S](r, rd)
					if err != nil {
						return err
					}
					storeExtension(extField, jsontext.ToGoString[S](nameBody), v)
					continue
				}
				if err := rd.SkipValue(); err != nil {
					return err
				}
				continue
			}
			m := &plans[idx]
			childPair, err := r.resolve(m.goType, width)
			if err != nil {
				return err
			}
			fv := memberValueAlloc(rv, m)
			if err := unmarshalFuncFor[S](childPair)(rd, fv); err != nil {
				return err
			}
		}
	}
	return nil
}

// trimQuotes strips the surrounding quote symbols a raw string token
// carries, for feeding into the dispatcher which matches on bare names.
func trimQuotes[S jsontext.Symbol](s []S) []S {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// dispatchName reinterprets a raw member-name token as the UTF-8 bytes
// the dispatcher's decision tree is keyed on. The common case (no
// escapes, byte lane) is a zero-copy slice of the token; an escaped
// name is unquoted first, and a wide-lane name is narrowed directly
// when pure ASCII or re-encoded through UTF-8 otherwise.
func dispatchName[S jsontext.Symbol](nameRaw []S) ([]byte, error) {
	body := trimQuotes(nameRaw)
	escaped := false
	for _, c := range body {
		if byte(c) == '\\' {
			escaped = true
			break
		}
	}
	if escaped {
		unquoted, err := jsonwire.AppendUnquote[S](nil, nameRaw)
		if err != nil {
			return nil, err
		}
		body = unquoted
	}
	switch body := any(body).(type) {
	case []uint8:
		return body, nil
	case []uint16:
		ascii := true
		for _, c := range body {
			if c > 0x7F {
				ascii = false
				break
			}
		}
		if ascii {
			b := make([]byte, len(body))
			for i, c := range body {
				b[i] = byte(c)
			}
			return b, nil
		}
		return []byte(string(utf16.Decode(body))), nil
	default:
		return nil, jsonwire.ErrUnsupportedSymbol
	}
}

// marshalExtension emits the entries of a non-empty extension-data
// member, skipping any entry whose name collides with a declared
// member. OrderedAny preserves insertion order; a plain map is emitted
// in sorted-key order for deterministic output.
func marshalExtension[S jsontext.Symbol](r *Resolver, w *jsontext.Writer[S], extField reflect.Value, declared map[string]bool) error {
	if !extField.IsValid() {
		return nil
	}
	if extField.Type() == orderedAnyType {
		oa := extField.Interface().(OrderedAny)
		for _, name := range oa.Keys() {
			if declared[name] {
				continue
			}
			v, _ := oa.Get(name)
			if err := w.WriteString(name); err != nil {
				return err
			}
			if err := marshalDynamic[S](r, w, v); err != nil {
				return err
			}
		}
		return nil
	}
	if extField.Kind() != reflect.Map || extField.IsNil() {
		return nil
	}
	keys := extField.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	for _, name := range names {
		if declared[name] {
			continue
		}
		if err := w.WriteString(name); err != nil {
			return err
		}
		v := extField.MapIndex(reflect.ValueOf(name).Convert(extField.Type().Key()))
		if err := marshalDynamic[S](r, w, v.Interface()); err != nil {
			return err
		}
	}
	return nil
}

// storeExtension inserts an unmatched member into the extension-data
// slot, which is either an OrderedAny or a map with string-kinded keys.
func storeExtension(extField reflect.Value, name string, v any) {
	if extField.Type() == orderedAnyType {
		extField.Addr().Interface().(*OrderedAny).Set(name, v)
		return
	}
	val := reflect.ValueOf(v)
	if v == nil {
		val = reflect.Zero(extField.Type().Elem())
	}
	extField.SetMapIndex(reflect.ValueOf(name).Convert(extField.Type().Key()), val)
}

// excludedNull reports whether the resolver's exclude-nulls policy
// drops this member: a nil pointer-like value is omitted instead of
// being written as an explicit null.
func excludedNull(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func fieldByIndex(rv reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 {
			if rv.Kind() == reflect.Ptr {
				if rv.IsNil() {
					return reflect.Value{}
				}
				rv = rv.Elem()
			}
		}
		rv = rv.Field(x)
	}
	return rv
}

// fieldByIndexAlloc is fieldByIndex but allocates nil embedded pointer
// structs along the path, needed on the decode side where an embedded
// *T field must exist before its members can be set.
func fieldByIndexAlloc(rv reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 {
			if rv.Kind() == reflect.Ptr {
				if rv.IsNil() {
					rv.Set(reflect.New(rv.Type().Elem()))
				}
				rv = rv.Elem()
			}
		}
		rv = rv.Field(x)
	}
	return rv
}

// isEmptyValue mirrors encoding/json's omitempty predicate: the
// member descriptor's ShouldSerialize check.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
