package jsonwire

import "testing"

func TestTableCanonical(t *testing.T) {
	tbl := Canonical()
	if !tbl.IsCanonical() {
		t.Fatal("the shared default-mode table should report canonical")
	}
	fresh := NewTable(ModeDefault)
	if !fresh.IsCanonical() {
		t.Fatal("a freshly constructed default-mode table should also report canonical")
	}
	nonASCII := NewTable(ModeEscapeNonASCII)
	if nonASCII.IsCanonical() {
		t.Fatal("a non-default mode table must not report canonical")
	}
}

func TestNeedsEscapeASCII(t *testing.T) {
	tbl := NewTable(ModeDefault)
	tests := []struct {
		c    byte
		want bool
	}{
		{'a', false},
		{'0', false},
		{' ', false},
		{'"', true},
		{'\\', true},
		{'\n', true},
		{0x1f, true},
		{0x7f, false},
	}
	for _, tt := range tests {
		if got, _ := tbl.NeedsEscapeASCII(tt.c); got != tt.want {
			t.Errorf("NeedsEscapeASCII(%q) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestHTMLEscapeSet(t *testing.T) {
	tbl := NewTable(ModeEscapeHTML)
	for _, c := range []byte{'<', '>', '&', '\'', '+'} {
		if esc, _ := tbl.NeedsEscapeASCII(c); !esc {
			t.Errorf("HTML escape table should escape %q", c)
		}
	}
	if esc, _ := tbl.NeedsEscapeASCII('-'); esc {
		t.Error("HTML escape table should not escape '-'")
	}
}
