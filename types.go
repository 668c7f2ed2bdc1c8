package gojson

import "github.com/rnats/gojson/internal/jsonwire"

// Decimal is the arbitrary-precision base-10 numeric type bound to the
// JSON number codec, preserving 28-29 significant digits where float64
// would round. Aliased from the wire package so callers can declare
// members of this type without reaching into internal paths.
type Decimal = jsonwire.Decimal

// DecimalFromFloat64 constructs a Decimal from a float64.
func DecimalFromFloat64(v float64) Decimal { return jsonwire.DecimalFromFloat64(v) }

// Version is the major.minor[.build[.revision]] type bound to the
// version string codec.
type Version = jsonwire.Version

// Char is a single UTF-16 code unit; it marshals as a one-character
// JSON string (escaped as needed) and unmarshals from a JSON string of
// exactly one decoded code unit.
type Char = jsonwire.Char

// ParseVersion parses the string form of a Version.
func ParseVersion(s string) (Version, error) { return jsonwire.ParseVersion(s) }
