package jsonwire

import (
	"github.com/google/uuid"
)

// ParseGUID parses the 36-character hyphenated form
// XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX, delegating to google/uuid
// rather than hand-rolling hex validation.
func ParseGUID(src []byte) (uuid.UUID, error) {
	return uuid.ParseBytes(src)
}

// AppendGUID appends the canonical hyphenated form of id.
func AppendGUID(dst []byte, id uuid.UUID) []byte {
	text, _ := id.MarshalText()
	return append(dst, text...)
}
