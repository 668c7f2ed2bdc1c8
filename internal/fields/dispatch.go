package fields

import "encoding/binary"

// Dispatcher is a property-name decision structure: names are
// partitioned by length first (a mismatched length rules out an entire
// class in one integer compare), then, within a class, compared using
// chunked 8/4/2/1-byte reads rather than a byte-by-byte loop or a hash
// lookup: a hash still has to scan the whole name to compute it, while
// chunked compares let the processor short-circuit on the first
// differing word.
//
// A fully generated decision tree could additionally split each length
// class on the byte position with the highest distinguishing entropy
// across its candidates. This implementation takes the simpler variant
// and linearly tries each candidate's chunked compare within its
// (already length-disjoint) class.
type Dispatcher struct {
	classes map[int][]dispatchEntry
	anyFold bool
}

type dispatchEntry struct {
	key    []byte // EscapedName, lowercased if NoCase
	member int
	nocase bool
}

// NewDispatcher builds a dispatcher from a type's ordered member list.
// It is built once per (type, resolver) and cached alongside the
// formatter pair it dispatches for.
func NewDispatcher(members []Member) *Dispatcher {
	d := &Dispatcher{classes: make(map[int][]dispatchEntry)}
	for i, m := range members {
		key := m.EscapedName
		if m.NoCase {
			key = toLowerASCII(m.EscapedName)
			d.anyFold = true
		}
		n := len(m.EscapedName)
		d.classes[n] = append(d.classes[n], dispatchEntry{key: key, member: i, nocase: m.NoCase})
	}
	return d
}

// Match returns the index into the member slice passed to NewDispatcher
// whose name matches name, or ok=false if the name is unrecognized (the
// reader falls through to skip-value).
func (d *Dispatcher) Match(name []byte) (member int, ok bool) {
	entries := d.classes[len(name)]
	if len(entries) == 0 {
		return 0, false
	}
	for _, e := range entries {
		if !e.nocase && equalChunked(e.key, name) {
			return e.member, true
		}
	}
	if d.anyFold {
		folded := toLowerASCII(name)
		for _, e := range entries {
			if e.nocase && equalChunked(e.key, folded) {
				return e.member, true
			}
		}
	}
	return 0, false
}

// equalChunked compares two equal-length byte slices using the widest
// integer reads that fit, narrowing as the remainder shrinks.
func equalChunked(a, b []byte) bool {
	n := len(a)
	i := 0
	for n-i >= 8 {
		if binary.LittleEndian.Uint64(a[i:]) != binary.LittleEndian.Uint64(b[i:]) {
			return false
		}
		i += 8
	}
	if n-i >= 4 {
		if binary.LittleEndian.Uint32(a[i:]) != binary.LittleEndian.Uint32(b[i:]) {
			return false
		}
		i += 4
	}
	if n-i >= 2 {
		if binary.LittleEndian.Uint16(a[i:]) != binary.LittleEndian.Uint16(b[i:]) {
			return false
		}
		i += 2
	}
	if n-i >= 1 {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func toLowerASCII(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return out
}
