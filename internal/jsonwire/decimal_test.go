package jsonwire

import "testing"

func TestDecimalRoundTrip(t *testing.T) {
	tests := []string{"0", "123.456", "-0.0001", "99999999999999999999999999.5"}
	for _, s := range tests {
		d, err := ParseDecimal([]byte(s))
		if err != nil {
			t.Fatalf("ParseDecimal(%q): %v", s, err)
		}
		out := AppendDecimal(nil, d)
		d2, err := ParseDecimal(out)
		if err != nil {
			t.Fatalf("ParseDecimal(%q) (from re-append): %v", out, err)
		}
		if d.f.Cmp(d2.f) != 0 {
			t.Errorf("round trip through %q changed value: got %v", out, AppendDecimal(nil, d2))
		}
	}
}

func TestParseDecimalRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "1e"} {
		if _, err := ParseDecimal([]byte(s)); err == nil {
			t.Errorf("ParseDecimal(%q): expected error", s)
		}
	}
}

func TestDecimalFromFloat64(t *testing.T) {
	d := DecimalFromFloat64(3.5)
	if d.Float64() != 3.5 {
		t.Errorf("got %v, want 3.5", d.Float64())
	}
}
