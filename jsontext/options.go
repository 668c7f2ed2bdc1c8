package jsontext

import (
	"github.com/rnats/gojson/internal/jsonopts"
	"github.com/rnats/gojson/internal/jsonwire"
)

// ReaderOptions configures a Reader, translated once from the shared
// jsonopts.Struct resolver policy.
type ReaderOptions struct {
	AllowTrailingCommas bool
	Comments            jsonopts.CommentHandling
	MaxDepth            int

	// Segmented marks this reader's source as a non-final segment of a
	// larger stream: a token truncated at the end of the source yields
	// ErrIncomplete (with reader state rolled back to the token
	// boundary) instead of a syntax error, so the caller can resubmit
	// the unconsumed tail plus new data.
	Segmented bool
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	Escape   *jsonwire.Table
	MaxDepth int
}

// ReaderOptionsFromPolicy derives ReaderOptions from a resolver policy.
func ReaderOptionsFromPolicy(p jsonopts.Struct) ReaderOptions {
	return ReaderOptions{
		AllowTrailingCommas: p.AllowTrailingCommas,
		Comments:            p.Comments,
		MaxDepth:            p.Depth(),
	}
}

// WriterOptionsFromPolicy derives WriterOptions from a resolver policy.
func WriterOptionsFromPolicy(p jsonopts.Struct) WriterOptions {
	var mode jsonwire.Mode
	switch p.Escape {
	case jsonopts.EscapeNonASCII:
		mode = jsonwire.ModeEscapeNonASCII
	case jsonopts.EscapeHTML:
		mode = jsonwire.ModeEscapeHTML
	default:
		mode = jsonwire.ModeDefault
	}
	return WriterOptions{
		Escape:   jsonwire.NewTable(mode),
		MaxDepth: p.Depth(),
	}
}

func (o ReaderOptions) ceiling() int {
	if o.MaxDepth <= 0 {
		return 64
	}
	return o.MaxDepth
}

func (o WriterOptions) ceiling() int {
	if o.MaxDepth <= 0 {
		return 64
	}
	return o.MaxDepth
}
