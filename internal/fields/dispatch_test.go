package fields

import "testing"

func membersFromNames(names ...string) []Member {
	ms := make([]Member, len(names))
	for i, n := range names {
		ms[i] = Member{JSONName: n, EscapedName: []byte(n)}
	}
	return ms
}

func TestDispatcherMatch(t *testing.T) {
	d := NewDispatcher(membersFromNames("id", "name", "createdAt", "updatedAt", "x"))
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"id", 0, true},
		{"name", 1, true},
		{"createdAt", 2, true},
		{"updatedAt", 3, true},
		{"x", 4, true},
		{"Id", 0, false},        // same length, different bytes
		{"names", 0, false},     // no length class
		{"createdAx", 0, false}, // differs in the final chunk
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := d.Match([]byte(tt.name))
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Match(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDispatcherNoCase(t *testing.T) {
	ms := membersFromNames("exact", "folded")
	ms[1].NoCase = true
	d := NewDispatcher(ms)
	if _, ok := d.Match([]byte("EXACT")); ok {
		t.Error("a case-sensitive member must not match a folded name")
	}
	if got, ok := d.Match([]byte("FoLdEd")); !ok || got != 1 {
		t.Errorf("Match(FoLdEd) = (%d, %v), want (1, true)", got, ok)
	}
	if got, ok := d.Match([]byte("folded")); !ok || got != 1 {
		t.Errorf("Match(folded) = (%d, %v), want (1, true)", got, ok)
	}
}

func TestEqualChunked(t *testing.T) {
	// Lengths straddling every chunk width: 8-byte, 4-byte, 2-byte,
	// 1-byte, and combinations.
	for _, n := range []int{0, 1, 2, 3, 4, 7, 8, 9, 15, 16, 31} {
		a := make([]byte, n)
		b := make([]byte, n)
		for i := range a {
			a[i] = byte('a' + i%26)
			b[i] = a[i]
		}
		if !equalChunked(a, b) {
			t.Errorf("equalChunked(len %d) = false for identical slices", n)
		}
		if n > 0 {
			b[n-1] ^= 1
			if equalChunked(a, b) {
				t.Errorf("equalChunked(len %d) = true after flipping the last byte", n)
			}
		}
	}
}
