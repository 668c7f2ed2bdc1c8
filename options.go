package gojson

import "github.com/rnats/gojson/internal/jsonopts"

// Option configures a Resolver's policy. Each option is a small
// closure over jsonopts.Struct, following the functional-options shape
// common to per-call Options values, adapted here to configure a
// long-lived Resolver instead of a single call.
type Option func(*jsonopts.Struct)

// Naming selects the member-naming convention.
func Naming(n jsonopts.Naming) Option {
	return func(s *jsonopts.Struct) { s.Naming = n }
}

// ExcludeNulls omits members holding a nil pointer, interface, map, or
// slice from marshaled output instead of emitting an explicit null.
func ExcludeNulls(v bool) Option {
	return func(s *jsonopts.Struct) { s.ExcludeNulls = v }
}

// EscapeMode controls which characters the writer escapes beyond the
// JSON-mandated minimum.
func EscapeMode(m jsonopts.EscapeMode) Option {
	return func(s *jsonopts.Struct) { s.Escape = m }
}

// AllowExtensionData enables the catch-all extension-data member for
// types that declare one.
func AllowExtensionData(v bool) Option {
	return func(s *jsonopts.Struct) { s.ExtensionData = v }
}

// AllowTrailingCommas tolerates a trailing comma before a closing
// bracket on decode.
func AllowTrailingCommas(v bool) Option {
	return func(s *jsonopts.Struct) { s.AllowTrailingCommas = v }
}

// Comments configures how the decoder treats `//` and `/* */` comments.
func Comments(h jsonopts.CommentHandling) Option {
	return func(s *jsonopts.Struct) { s.Comments = h }
}

// MaxDepth overrides the recursion guard's ceiling;
// zero keeps the default of 64.
func MaxDepth(n int) Option {
	return func(s *jsonopts.Struct) { s.MaxDepth = n }
}

func buildPolicy(opts []Option) jsonopts.Struct {
	p := jsonopts.Default
	for _, o := range opts {
		o(&p)
	}
	return p
}
