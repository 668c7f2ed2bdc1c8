package jsonwire

import "errors"

// Symbol is the unit of a JSON stream: either a UTF-8 byte or a UTF-16
// code unit. The constraint is closed (no ~) so that dispatch on S can
// be done with an exact type switch over any(zeroValue); the Go
// compiler monomorphizes one specialization per instantiation.
type Symbol interface {
	uint8 | uint16
}

// ErrUnsupportedSymbol is returned when a Symbol type parameter resolves
// to neither uint8 nor uint16. Reaching this branch is impossible given
// the Symbol constraint above; it exists because generic code that
// forwards a type parameter through an interface boundary (e.g. via
// reflection) can, in principle, smuggle in a type outside the
// constraint's static checks.
var ErrUnsupportedSymbol = errors.New("jsonwire: unsupported symbol width")

// WidthOf reports the byte width of one S, i.e. 1 for uint8 and 2 for uint16.
func WidthOf[S Symbol]() int {
	var z S
	switch any(z).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	default:
		return 0
	}
}
