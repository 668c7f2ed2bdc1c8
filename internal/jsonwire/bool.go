package jsonwire

import "errors"

var errInvalidBool = errors.New("jsonwire: invalid boolean literal")

// AppendBool appends the exact JSON literal for v.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, "true"...)
	}
	return append(dst, "false"...)
}

// ConsumeBool matches an exact "true" or "false" literal at the start of
// src and returns its value and length.
func ConsumeBool(src []byte) (v bool, n int, err error) {
	switch {
	case len(src) >= 4 && string(src[:4]) == "true":
		return true, 4, nil
	case len(src) >= 5 && string(src[:5]) == "false":
		return false, 5, nil
	default:
		return false, 0, errInvalidBool
	}
}
