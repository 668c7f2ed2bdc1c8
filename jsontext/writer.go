package jsontext

import (
	"github.com/rnats/gojson/internal/bufpools"
	"github.com/rnats/gojson/internal/jsonwire"
)

// Writer is the growing-buffer JSON emitter, generic over the symbol
// width S. It owns its buffer exclusively, using a single contiguous
// buffer rather than segmented output. In the byte lane the backing
// storage is acquired from a pool on first growth and released on
// Finalize; the wide lane allocates its storage directly and does not
// use a pool.
type Writer[S Symbol] struct {
	buf    []S
	opts   WriterOptions
	stack  bitStack
	pooled bool // true if buf's backing array came from bufpools

	// recursionDepth is the recursion guard: a counter distinct from
	// the structural nesting tracked by stack, incremented by the
	// composite formatter generator for recursion-candidate types
	// before it emits a container.
	recursionDepth int
}

// NewWriter constructs a Writer with the given options. The writer owns
// no buffer until the first write grows it.
func NewWriter[S Symbol](opts WriterOptions) *Writer[S] {
	w := &Writer[S]{opts: opts}
	w.stack.init()
	if opts.Escape == nil {
		w.opts.Escape = jsonwire.Canonical()
	}
	return w
}

// reset clears w for reuse from a pool. Writer/Reader values are
// stack-only and never suspend; pooling them across uses is still valid
// since each use starts from a clean state.
func (w *Writer[S]) reset(opts WriterOptions) {
	if w.pooled {
		bufpools.Put(bytesOf(w.buf))
	}
	w.buf = nil
	w.pooled = false
	w.opts = opts
	w.stack.init()
	w.recursionDepth = 0
}

func bytesOf[S Symbol](b []S) []byte {
	switch b := any(b).(type) {
	case []uint8:
		return b
	default:
		return nil
	}
}

// grow ensures capacity for n additional symbols, growing to
// max(capacity*2, len+n), acquiring backing storage from bufpools.Get
// on first growth.
func (w *Writer[S]) grow(n int) {
	if cap(w.buf)-len(w.buf) >= n {
		return
	}
	newCap := cap(w.buf) * 2
	need := len(w.buf) + n
	if newCap < need {
		newCap = need
	}
	if newCap < 64 {
		newCap = 64
	}
	width := jsonwire.WidthOf[S]()
	var nb []S
	if width == 1 {
		raw := bufpools.Get(newCap)
		nb = any(raw[:len(raw):cap(raw)]).([]S)
	} else {
		nb = make([]S, 0, newCap)
	}
	nb = append(nb, w.buf...)
	if w.pooled {
		bufpools.Put(bytesOf(w.buf))
	}
	w.buf = nb
	w.pooled = width == 1
}

// Len reports the number of symbols written so far.
func (w *Writer[S]) Len() int { return len(w.buf) }

// Depth reports the current structural nesting depth (1-indexed).
func (w *Writer[S]) Depth() int { return w.stack.depth() }

func (w *Writer[S]) checkCeiling() error {
	if w.stack.depth() > w.opts.ceiling() {
		return &ErrDepthExceeded{Ceiling: w.opts.ceiling()}
	}
	return nil
}

// IncDepth is the recursion guard hook the composite formatter
// generator calls before descending into a recursion candidate type.
func (w *Writer[S]) IncDepth() error {
	if w.recursionDepth >= w.opts.ceiling() {
		return &ErrDepthExceeded{Ceiling: w.opts.ceiling()}
	}
	w.recursionDepth++
	return nil
}

// DecDepth undoes IncDepth.
func (w *Writer[S]) DecDepth() { w.recursionDepth-- }

// writeDelim writes the implicit ':' or ',' required before the next
// token of the given kind.
func (w *Writer[S]) writeDelim(next Kind) {
	top := w.stack.depth() > 0
	if !top {
		return
	}
	if w.stack.depth() == 1 {
		return // no delimiter needed around top-level values
	}
	if w.stack.top() {
		// Inside an object: alternate name/value with ':' and ',' .
		if w.stack.count()%2 == 1 {
			w.buf = append(w.buf, widen[S](':'))
			return
		}
	}
	if w.stack.count() > 0 {
		w.buf = append(w.buf, widen[S](','))
	}
}

// WriteBeginObject writes '{' and pushes an object frame.
func (w *Writer[S]) WriteBeginObject() error {
	if err := w.checkCeiling(); err != nil {
		return err
	}
	w.grow(2)
	w.writeDelim(KindBeginObject)
	w.buf = append(w.buf, widen[S]('{'))
	w.stack.increment()
	w.stack.push(true)
	return nil
}

// WriteEndObject writes '}' and pops the object frame.
func (w *Writer[S]) WriteEndObject() error {
	w.grow(1)
	w.buf = append(w.buf, widen[S]('}'))
	w.stack.pop()
	return nil
}

// WriteBeginArray writes '[' and pushes an array frame.
func (w *Writer[S]) WriteBeginArray() error {
	if err := w.checkCeiling(); err != nil {
		return err
	}
	w.grow(2)
	w.writeDelim(KindBeginArray)
	w.buf = append(w.buf, widen[S]('['))
	w.stack.increment()
	w.stack.push(false)
	return nil
}

// WriteEndArray writes ']' and pops the array frame.
func (w *Writer[S]) WriteEndArray() error {
	w.grow(1)
	w.buf = append(w.buf, widen[S](']'))
	w.stack.pop()
	return nil
}

// WriteNull writes the null literal.
func (w *Writer[S]) WriteNull() error {
	w.grow(4)
	w.writeDelim(KindNull)
	w.buf = appendASCII(w.buf, "null")
	w.stack.increment()
	return nil
}

// WriteBool writes the true/false literal.
func (w *Writer[S]) WriteBool(v bool) error {
	w.grow(5)
	w.writeDelim(KindBool)
	if v {
		w.buf = appendASCII(w.buf, "true")
	} else {
		w.buf = appendASCII(w.buf, "false")
	}
	w.stack.increment()
	return nil
}

// WriteRawASCII writes a pre-encoded ASCII payload (e.g. a number
// literal produced by jsonwire.AppendInt/AppendFloat) verbatim.
func (w *Writer[S]) WriteRawASCII(lit []byte) error {
	w.grow(len(lit))
	w.writeDelim(KindNumber)
	for _, c := range lit {
		w.buf = append(w.buf, widen[S](c))
	}
	w.stack.increment()
	return nil
}

// WriteString escape-encodes s (read as UTF-8) as a JSON string value.
func (w *Writer[S]) WriteString(s string) error {
	w.writeDelim(KindString)
	src := AppendString[S](nil, s)
	var err error
	w.buf, err = jsonwire.AppendQuote(w.buf, src, w.opts.Escape)
	if err != nil {
		return err
	}
	w.stack.increment()
	return nil
}

// WriteMemberName emits a precomputed, already-escaped `"name"` symbol
// sequence (quotes included, produced once by the type description
// model) as a single verbatim write, skipping per-call escape analysis.
// It does not write the ':' separator; the delimiter logic of the value
// written next emits it.
func (w *Writer[S]) WriteMemberName(quotedName []S) error {
	w.writeDelim(KindString)
	w.grow(len(quotedName))
	w.buf = append(w.buf, quotedName...)
	w.stack.increment() // the name occupies one "slot"; the value fills the next
	return nil
}

// WriteRawValue appends a pre-encoded JSON value (UTF-8 text) as the
// next value in the current container, transcoding into the wide lane
// as needed. Used by per-type formatter overrides whose output is
// already a complete JSON fragment.
func (w *Writer[S]) WriteRawValue(raw []byte) error {
	w.grow(len(raw) + 1)
	w.writeDelim(KindString)
	w.buf = AppendString[S](w.buf, string(raw))
	w.stack.increment()
	return nil
}

// WriteVerbatim appends a byte sequence with no escape processing, used
// by the generator for other precomputed fragments.
func (w *Writer[S]) WriteVerbatim(chunk []S) {
	w.grow(len(chunk))
	w.buf = append(w.buf, chunk...)
}

// Bytes returns the buffer contents written so far without consuming
// the writer.
func (w *Writer[S]) Bytes() []S { return w.buf }

// Finalize consumes the writer, yielding an owned copy of the written
// output and releasing the backing storage to the pool. No further
// writes are valid after this call.
func (w *Writer[S]) Finalize() []S {
	out := make([]S, len(w.buf))
	copy(out, w.buf)
	if w.pooled {
		bufpools.Put(bytesOf(w.buf))
	}
	w.buf = nil
	w.pooled = false
	return out
}
