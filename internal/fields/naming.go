// Package fields implements the type description model and
// property-name dispatcher: enumerating a struct's serializable members
// from its tags and Go field layout, and building a fast decision tree
// to match an incoming member name back to one of them. Each direct
// member carries a reflect2 accessor for offset-based unsafe field
// access; members promoted from embedded structs fall back to an
// index-path walk through reflect.Value.
package fields

import "strings"

// Naming mirrors jsonopts.Naming without importing it, keeping this
// package free of a dependency on the resolver-policy type; callers
// translate at the boundary.
type Naming int

const (
	AsDeclared Naming = iota
	CamelCase
	SnakeCase
	AdaCase
)

// Rename applies one of the three naming convention transforms to a Go
// field name.
func Rename(fieldName string, n Naming) string {
	switch n {
	case CamelCase:
		return toCamelCase(fieldName)
	case SnakeCase:
		return toDelimited(fieldName, '_', false)
	case AdaCase:
		return toDelimited(fieldName, '_', true)
	default:
		return fieldName
	}
}

func toCamelCase(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}

func toDelimited(s string, sep byte, capitalize bool) string {
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteByte(sep)
		}
		if capitalize {
			b.WriteString(strings.ToUpper(w[:1]))
			b.WriteString(strings.ToLower(w[1:]))
		} else {
			b.WriteString(strings.ToLower(w))
		}
	}
	return b.String()
}

// splitWords breaks a Go identifier into words along case boundaries
// and existing underscores, treating a run of uppercase letters
// followed by a lowercase one as "ACRONYM+Word" (e.g. "HTTPServer" ->
// "HTTP", "Server").
func splitWords(s string) []string {
	var words []string
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '_' || c == '-' || c == ' ' {
			flush()
			continue
		}
		if c >= 'A' && c <= 'Z' {
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			prevLower := len(cur) > 0 && cur[len(cur)-1] >= 'a' && cur[len(cur)-1] <= 'z'
			if (prevLower || nextLower) && len(cur) > 0 {
				flush()
			}
		}
		cur = append(cur, byte(c))
	}
	flush()
	return words
}
