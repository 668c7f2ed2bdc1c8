package jsonwire

import (
	"errors"
	"math/big"
)

// Decimal holds an arbitrary-precision base-10 value, preserving
// precision to 28-29 significant digits, well beyond what float64
// (≈15-17 significant digits) can represent.
//
// No third-party 128-bit decimal package (e.g. shopspring/decimal,
// cockroachdb/apd) appears anywhere in the retrieved example pack
// (checked across every _examples/*/go.mod and other_examples/*.go);
// see DESIGN.md. math/big.Float, configured with enough precision bits
// to cover 29 significant decimal digits, is used instead.
type Decimal struct {
	f *big.Float
}

// decimalPrecisionBits covers 29 significant decimal digits
// (29 * log2(10) ≈ 96.3 bits), rounded up generously.
const decimalPrecisionBits = 128

var errInvalidDecimal = errors.New("jsonwire: invalid decimal")

// ParseDecimal validates src against the same grammar as a JSON double
// and parses it at decimal precision.
func ParseDecimal(src []byte) (Decimal, error) {
	n, err := ConsumeNumber(src)
	if err != nil || n != len(src) {
		return Decimal{}, errInvalidDecimal
	}
	f, _, err := big.ParseFloat(string(src), 10, decimalPrecisionBits, big.ToNearestEven)
	if err != nil {
		return Decimal{}, errInvalidDecimal
	}
	return Decimal{f: f}, nil
}

// AppendDecimal appends d using the shortest representation that
// round-trips at decimal precision.
func AppendDecimal(dst []byte, d Decimal) []byte {
	if d.f == nil {
		return append(dst, '0')
	}
	return d.f.Append(dst, 'g', -1)
}

// Float64 narrows d to a float64, for callers that accept the
// precision loss.
func (d Decimal) Float64() float64 {
	if d.f == nil {
		return 0
	}
	v, _ := d.f.Float64()
	return v
}

// DecimalFromFloat64 constructs a Decimal from a float64.
func DecimalFromFloat64(v float64) Decimal {
	return Decimal{f: new(big.Float).SetPrec(decimalPrecisionBits).SetFloat64(v)}
}
