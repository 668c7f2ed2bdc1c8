package jsonwire

import "testing"

func TestCharRoundTrip(t *testing.T) {
	for _, c := range []Char{'a', '"', '\\', '\n', 0x7F, 'é', 0x3C0, 0xFFFD} {
		out, err := AppendChar(nil, c)
		if err != nil {
			t.Fatalf("AppendChar(%#x): %v", c, err)
		}
		got, err := ParseChar(out)
		if err != nil {
			t.Fatalf("ParseChar(%q): %v", out, err)
		}
		if got != c {
			t.Errorf("round trip of %#x gave %#x", c, got)
		}
	}
}

func TestAppendCharRejectsSurrogate(t *testing.T) {
	if _, err := AppendChar(nil, 0xD800); err == nil {
		t.Error("a lone surrogate code unit must be rejected")
	}
}

func TestParseCharRejectsMultiUnit(t *testing.T) {
	for _, s := range []string{"", "ab", "\U0001F600"} {
		if _, err := ParseChar([]byte(s)); err == nil {
			t.Errorf("ParseChar(%q): expected error", s)
		}
	}
}
