// Package bufpools provides pooled backing storage for the jsontext
// writer buffer: backing storage is acquired from a pool on first
// growth.
//
// The writer is scoped to a single contiguous growable buffer rather
// than chained fixed-size segments, so this pool hands out whole,
// variously-sized []byte slices from size-classed sync.Pools, and the
// caller (jsontext.Writer) is responsible for growth/copy, not the pool.
package bufpools

import (
	"math/bits"
	"sync"
)

// minSize is the smallest buffer ever handed out; anything smaller is
// rounded up to make the best use of allocator size classes.
const minSize = 64

// classes holds one sync.Pool per power-of-two size class up to 1<<20.
// Requests larger than that fall back to a direct allocation, since
// pooling arbitrarily large buffers risks pinning memory that is too
// large and too often under-utilized.
const maxClassExponent = 20

var classes [maxClassExponent + 1]sync.Pool

func init() {
	for i := range classes {
		size := 1 << i
		classes[i].New = func() any {
			b := make([]byte, 0, size)
			return &b
		}
	}
}

func classFor(n int) int {
	if n < minSize {
		n = minSize
	}
	exp := bits.Len(uint(n - 1))
	if exp > maxClassExponent {
		return -1
	}
	return exp
}

// Get returns a buffer with capacity of at least n and length zero.
func Get(n int) []byte {
	class := classFor(n)
	if class < 0 {
		return make([]byte, 0, n)
	}
	p := classes[class].Get().(*[]byte)
	b := (*p)[:0]
	*p = nil
	return b
}

// Put returns a buffer to its size class's pool. Buffers outside the
// pooled range are simply dropped for the GC to reclaim.
func Put(b []byte) {
	if cap(b) == 0 {
		return
	}
	class := classFor(cap(b))
	if class < 0 || 1<<class != cap(b) {
		// Only buffers that are exact size-class powers of two are
		// pooled back; an odd-sized buffer (e.g. grown ad hoc) is let go
		// rather than polluting a pool with mismatched capacities.
		return
	}
	b = b[:0]
	classes[class].Put(&b)
}
