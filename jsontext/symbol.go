// Package jsontext implements the incremental JSON tokenizer/emitter
// core: a forward-only, zero-copy reader and a growing-buffer writer,
// each parameterized over symbol width so that a single implementation
// serves both the UTF-8 byte lane and the UTF-16 code-unit lane.
package jsontext

import (
	"unicode/utf16"

	"github.com/rnats/gojson/internal/jsonwire"
)

// Symbol is the unit of the stream this package reads and writes: a
// UTF-8 byte (uint8) or a UTF-16 code unit (uint16). Dispatch between
// the two lanes is by static type.
type Symbol = jsonwire.Symbol

// AppendString widens a Go string (read as UTF-8) onto a symbol slice of
// either lane, decoding to UTF-16 code units when S is uint16.
func AppendString[S Symbol](dst []S, s string) []S {
	switch any(dst).(type) {
	case []uint8:
		return any(append(any(dst).([]uint8), s...)).([]S)
	case []uint16:
		out := any(dst).([]uint16)
		for _, r := range s {
			if r < 0x10000 {
				out = append(out, uint16(r))
			} else {
				r1, r2 := utf16.EncodeRune(r)
				out = append(out, uint16(r1), uint16(r2))
			}
		}
		return any(out).([]S)
	default:
		return dst
	}
}

// ToGoString converts a symbol slice back to a Go (UTF-8) string,
// decoding from UTF-16 when S is uint16.
func ToGoString[S Symbol](src []S) string {
	switch src := any(src).(type) {
	case []uint8:
		return string(src)
	case []uint16:
		return string(utf16.Decode(src))
	default:
		return ""
	}
}

// appendASCII widens an ASCII byte literal (e.g. "null", "{") onto dst.
func appendASCII[S Symbol](dst []S, lit string) []S {
	switch any(dst).(type) {
	case []uint8:
		return any(append(any(dst).([]uint8), lit...)).([]S)
	case []uint16:
		out := any(dst).([]uint16)
		for i := 0; i < len(lit); i++ {
			out = append(out, uint16(lit[i]))
		}
		return any(out).([]S)
	default:
		return dst
	}
}

func widen[S Symbol](c byte) S {
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
