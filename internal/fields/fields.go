package fields

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/modern-go/reflect2"
)

// tagOptions is the parsed `json:"..."` struct tag: bare name,
// single-quoted name, comma-separated options, and a `format:` value.
type tagOptions struct {
	name      string
	explicit  bool // name came from the tag, not the Go field name
	nocase    bool
	inline    bool
	unknown   bool
	omitzero  bool
	omitempty bool
	quoted    bool
	format    string
}

var errIgnoredField = errors.New("fields: ignored field")

func parseTag(sf reflect.StructField) (out tagOptions, err error) {
	tag, hasTag := sf.Tag.Lookup("json")
	if tag == "-" {
		return tagOptions{}, errIgnoredField
	}
	if sf.PkgPath != "" {
		if sf.Anonymous {
			return tagOptions{}, fmt.Errorf("embedded field %s of unexported type must be explicitly ignored with `json:\"-\"`", sf.Type.Name())
		}
		if hasTag {
			return tagOptions{}, fmt.Errorf("unexported field %s cannot have a non-ignored json tag", sf.Name)
		}
		return tagOptions{}, errIgnoredField
	}

	out.name = sf.Name
	if len(tag) > 0 && !strings.HasPrefix(tag, ",") {
		opt, n, err := consumeTagOption(tag)
		if err != nil {
			return tagOptions{}, fmt.Errorf("field %s has malformed json tag: %v", sf.Name, err)
		}
		out.name = opt
		out.explicit = true
		tag = tag[n:]
	}

	seen := make(map[string]bool)
	for len(tag) > 0 {
		if tag[0] != ',' {
			return tagOptions{}, fmt.Errorf("field %s has malformed json tag: expected ',' before %q", sf.Name, tag[0])
		}
		tag = tag[1:]
		opt, n, err := consumeTagOption(tag)
		if err != nil {
			return tagOptions{}, fmt.Errorf("field %s has malformed json tag: %v", sf.Name, err)
		}
		tag = tag[n:]
		switch opt {
		case "nocase":
			out.nocase = true
		case "inline":
			out.inline = true
		case "unknown":
			out.unknown = true
			out.inline = true
		case "omitzero":
			out.omitzero = true
		case "omitempty":
			out.omitempty = true
		case "string":
			out.quoted = true
		case "format":
			if !strings.HasPrefix(tag, ":") {
				return tagOptions{}, fmt.Errorf("field %s is missing a value for the format tag option", sf.Name)
			}
			tag = tag[1:]
			v, n, err := consumeTagOption(tag)
			if err != nil {
				return tagOptions{}, fmt.Errorf("field %s has a malformed format tag value: %v", sf.Name, err)
			}
			tag = tag[n:]
			out.format = v
		}
		if seen[opt] {
			return tagOptions{}, fmt.Errorf("field %s has duplicate json tag option %q", sf.Name, opt)
		}
		seen[opt] = true
	}
	return out, nil
}

func consumeTagOption(in string) (string, int, error) {
	switch r, _ := utf8.DecodeRuneInString(in); {
	case r == '_' || unicode.IsLetter(r):
		n := len(in) - len(strings.TrimLeftFunc(in, isLetterOrDigit))
		return in[:n], n, nil
	case r == '\'':
		var inEscape bool
		b := []byte{'"'}
		n := 1
		for len(in) > n {
			r, rn := utf8.DecodeRuneInString(in[n:])
			switch {
			case inEscape:
				if r == '\'' {
					b = b[:len(b)-1]
				}
				inEscape = false
			case r == '\\':
				inEscape = true
			case r == '"':
				b = append(b, '\\')
			case r == '\'':
				b = append(b, '"')
				n++
				out, err := strconv.Unquote(string(b))
				if err != nil {
					return "", 0, fmt.Errorf("invalid single-quoted string: %s", in[:n])
				}
				return out, n, nil
			}
			b = append(b, in[n:][:rn]...)
			n += rn
		}
		if n > 10 {
			n = 10
		}
		return "", 0, fmt.Errorf("single-quoted string not terminated: %s...", in[:n])
	case len(in) == 0:
		return "", 0, io.ErrUnexpectedEOF
	default:
		return "", 0, fmt.Errorf("invalid character %q at start of tag option", r)
	}
}

func isLetterOrDigit(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Member is a single serializable field of a composite type: its Go
// accessor path, its resolved JSON name, and the precomputed emission
// plan for that name.
type Member struct {
	GoName string
	Index  []int // field index path; len>1 for a promoted embedded field

	JSONName    string
	EscapedName []byte // the bare escaped-UTF-8 name, no quotes
	NamePlan    [][]byte

	Type reflect2.Type

	// Field is the reflect2 accessor for a direct (non-promoted)
	// member: offset-based unsafe access into the owning struct,
	// bypassing reflect.Value.Field on the hot path. Nil for members
	// promoted from an embedded struct, which keep the index-path walk.
	Field reflect2.StructField

	NoCase      bool
	OmitEmpty   bool
	OmitZero    bool
	StringQuoted bool
	Format      string

	IsExtension bool
}

// Desc is a type's full description: its ordered members, its optional
// extension-data member, and whether it is a recursion candidate for
// the depth guard.
type Desc struct {
	GoType      reflect2.Type
	Members     []Member
	Extension   *Member
	Recursive   bool
}

// maxVerbatimChunkLen bounds the per-chunk length in a member name's
// emission plan: names up to this length get a single verbatim chunk,
// longer names are split into fixed-size spans.
const maxVerbatimChunkLen = 32

// Describe builds the type description for t under the given naming
// convention, walking embedded structs for field promotion the way
// encoding/json does.
func Describe(t reflect.Type, naming Naming) (*Desc, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("fields: %s is not a struct", t)
	}
	d := &Desc{GoType: reflect2.Type2(t)}
	seen := make(map[string]bool)
	if err := walkFields(t, nil, naming, d, seen); err != nil {
		return nil, err
	}
	d.Recursive = typeReaches(t, t, map[reflect.Type]bool{})
	return d, nil
}

func walkFields(t reflect.Type, prefix []int, naming Naming, d *Desc, seen map[string]bool) error {
	var st reflect2.StructType
	if len(prefix) == 0 {
		st, _ = reflect2.Type2(t).(reflect2.StructType)
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		opts, err := parseTag(sf)
		if err == errIgnoredField {
			continue
		}
		if err != nil {
			return err
		}
		index := append(append([]int{}, prefix...), i)

		// An embedded struct without its own JSON name contributes its
		// members to the parent's member list, depth-first; an explicit
		// tag name turns the embedded struct into an ordinary member.
		if sf.Anonymous && !opts.unknown && (opts.inline || !opts.explicit) {
			ft := sf.Type
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if err := walkFields(ft, index, naming, d, seen); err != nil {
					return err
				}
				continue
			}
		}

		if opts.unknown {
			m := Member{GoName: sf.Name, Index: index, Type: reflect2.Type2(sf.Type), IsExtension: true}
			d.Extension = &m
			continue
		}

		name := opts.name
		if name == sf.Name {
			name = Rename(sf.Name, naming)
		}
		if seen[name] {
			return fmt.Errorf("fields: duplicate JSON member name %q on %s", name, t)
		}
		seen[name] = true

		m := Member{
			GoName:       sf.Name,
			Index:        index,
			JSONName:     name,
			EscapedName:  escapeName(name),
			Type:         reflect2.Type2(sf.Type),
			NoCase:       opts.nocase,
			OmitEmpty:    opts.omitempty,
			OmitZero:     opts.omitzero,
			StringQuoted: opts.quoted,
			Format:       opts.format,
		}
		if st != nil {
			m.Field = st.Field(i)
		}
		m.NamePlan = buildNamePlan(m.EscapedName)
		d.Members = append(d.Members, m)
	}
	return nil
}

// escapeName produces the escaped-UTF-8 byte form of a JSON member
// name. The writer emits this form verbatim (no per-call escape
// analysis), so it must already satisfy RFC 8259: the quote, the
// backslash, and every C0 control get escaped here, once, at
// description-build time.
func escapeName(name string) []byte {
	needsEscape := false
	for i := 0; i < len(name); i++ {
		if c := name[i]; c == '"' || c == '\\' || c < 0x20 {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return []byte(name)
	}
	const hex = "0123456789abcdef"
	var b []byte
	for _, r := range name {
		switch {
		case r == '"':
			b = append(b, '\\', '"')
		case r == '\\':
			b = append(b, '\\', '\\')
		case r < 0x20:
			switch r {
			case '\b':
				b = append(b, '\\', 'b')
			case '\f':
				b = append(b, '\\', 'f')
			case '\n':
				b = append(b, '\\', 'n')
			case '\r':
				b = append(b, '\\', 'r')
			case '\t':
				b = append(b, '\\', 't')
			default:
				b = append(b, '\\', 'u', '0', '0', hex[(r>>4)&0xf], hex[r&0xf])
			}
		default:
			b = append(b, string(r)...)
		}
	}
	return b
}

// buildNamePlan splits an escaped name into the verbatim emission
// chunks the writer will append without further processing.
func buildNamePlan(escaped []byte) [][]byte {
	if len(escaped) <= maxVerbatimChunkLen {
		return [][]byte{escaped}
	}
	var chunks [][]byte
	for len(escaped) > 0 {
		n := maxVerbatimChunkLen
		if n > len(escaped) {
			n = len(escaped)
		}
		chunks = append(chunks, escaped[:n])
		escaped = escaped[n:]
	}
	return chunks
}

// typeReaches reports whether start can, through any chain of struct
// fields, slices, arrays, maps, or pointers, reach target again. A type
// that reaches itself this way is marked as a recursion candidate.
func typeReaches(start, target reflect.Type, visited map[reflect.Type]bool) bool {
	if visited[start] {
		return false
	}
	visited[start] = true
	switch start.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array:
		if start.Elem() == target {
			return true
		}
		return typeReaches(start.Elem(), target, visited)
	case reflect.Map:
		if start.Elem() == target {
			return true
		}
		return typeReaches(start.Elem(), target, visited)
	case reflect.Struct:
		for i := 0; i < start.NumField(); i++ {
			ft := start.Field(i).Type
			if ft == target {
				return true
			}
			k := ft.Kind()
			if k == reflect.Struct || k == reflect.Ptr || k == reflect.Slice || k == reflect.Array || k == reflect.Map {
				if typeReaches(ft, target, visited) {
					return true
				}
			}
		}
	}
	return false
}
