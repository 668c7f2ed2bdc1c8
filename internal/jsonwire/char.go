package jsonwire

import (
	"errors"
	"unicode/utf8"
)

// Char is a single UTF-16 code unit, the character type of the wire
// format. It marshals as a one-character JSON string and unmarshals
// from a JSON string holding exactly one decoded code unit.
type Char uint16

var errInvalidChar = errors.New("jsonwire: invalid char")

// AppendChar appends the UTF-8 content of c, without quotes; the
// string codec applies whatever escaping the active table requires. A
// surrogate code unit is rejected: it cannot stand alone in
// well-formed JSON text, and the reader rejects unpaired surrogate
// escapes on the way back in.
func AppendChar(dst []byte, c Char) ([]byte, error) {
	if c >= 0xD800 && c <= 0xDFFF {
		return dst, errInvalidChar
	}
	return utf8.AppendRune(dst, rune(c)), nil
}

// ParseChar decodes an unquoted string body as exactly one code unit.
// Multi-unit content, including surrogate pairs (a code *point* outside
// the BMP is two code units), is rejected.
func ParseChar(src []byte) (Char, error) {
	r, size := utf8.DecodeRune(src)
	if r == utf8.RuneError && size <= 1 {
		return 0, errInvalidChar
	}
	if size != len(src) || r >= 0x10000 {
		return 0, errInvalidChar
	}
	return Char(r), nil
}
