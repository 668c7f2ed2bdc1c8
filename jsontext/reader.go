package jsontext

import (
	"github.com/rnats/gojson/internal/jsonopts"
	"github.com/rnats/gojson/internal/jsonwire"
)

// Reader is the forward-only tokenizer. It never backs
// up past the start of the token currently being classified: on a
// truncated token it reports ErrIncomplete and leaves Offset() pointing
// at that token's first byte, so a caller feeding data in segments can
// resubmit from there once more input has arrived.
type Reader[S Symbol] struct {
	src  []S
	pos  int
	opts ReaderOptions

	stack bitStack
	line  int64
	col   int64

	recursionDepth int
}

// NewReader constructs a Reader over src with the given options.
func NewReader[S Symbol](src []S, opts ReaderOptions) *Reader[S] {
	r := &Reader[S]{src: src, opts: opts, line: 1, col: 1}
	r.stack.init()
	return r
}

// Offset reports the byte offset of the next unread symbol.
func (r *Reader[S]) Offset() int64 { return int64(r.pos) }

func (r *Reader[S]) syntaxErrorHere(msg string) *SyntaxError {
	return newSyntaxError(int64(r.pos), r.line, r.col, msg)
}

func (r *Reader[S]) advance(n int) {
	for i := 0; i < n; i++ {
		if byte(r.src[r.pos+i]) == '\n' {
			r.line++
			r.col = 1
		} else {
			r.col++
		}
	}
	r.pos += n
}

func (r *Reader[S]) eof() bool { return r.pos >= len(r.src) }

func (r *Reader[S]) byteAt(i int) byte { return byte(r.src[i]) }

// skipWhitespaceAndComments advances past insignificant whitespace and,
// depending on policy, comments. Reaching the end of input after
// whitespace returns nil; input that ends inside a comment is reported
// through incomplete().
func (r *Reader[S]) skipWhitespaceAndComments() error {
	for {
		for !r.eof() {
			switch r.byteAt(r.pos) {
			case ' ', '\t', '\r', '\n':
				r.advance(1)
				continue
			}
			break
		}
		if r.eof() {
			return nil
		}
		if r.byteAt(r.pos) != '/' {
			return nil
		}
		switch r.opts.Comments {
		case jsonopts.DisallowComments:
			return r.syntaxErrorHere("comments are not permitted")
		case jsonopts.SkipComments, jsonopts.PreserveComments:
			if err := r.skipOneComment(); err != nil {
				return err
			}
			if r.opts.Comments == jsonopts.PreserveComments {
				// Preservation of comment text for round-tripping is left
				// to a higher layer; the tokenizer still must skip past it
				// to find the next significant token.
			}
			continue
		}
	}
}

func (r *Reader[S]) skipOneComment() error {
	start := r.pos
	if r.pos+1 >= len(r.src) {
		r.pos = start
		return r.incomplete()
	}
	switch r.byteAt(r.pos + 1) {
	case '/':
		r.advance(2)
		for !r.eof() && r.byteAt(r.pos) != '\n' {
			r.advance(1)
		}
		return nil
	case '*':
		r.advance(2)
		for {
			if r.eof() {
				r.pos = start
				return r.incomplete()
			}
			if r.byteAt(r.pos) == '*' && r.pos+1 < len(r.src) && r.byteAt(r.pos+1) == '/' {
				r.advance(2)
				return nil
			}
			if r.byteAt(r.pos) == '*' && r.pos+1 >= len(r.src) {
				r.pos = start
				return r.incomplete()
			}
			r.advance(1)
		}
	default:
		return r.syntaxErrorHere("invalid comment")
	}
}

// PeekKind reports the kind of the next token without consuming
// anything: a pending ',' or ':' separator is looked past (the actual
// read consumes it via beforeValue), and the reader's position is left
// untouched.
func (r *Reader[S]) PeekKind() (Kind, error) {
	m := r.mark()
	defer r.restore(m)
	if err := r.skipWhitespaceAndComments(); err != nil {
		return KindInvalid, err
	}
	if !r.eof() && (r.byteAt(r.pos) == ',' || r.byteAt(r.pos) == ':') {
		r.advance(1)
		if err := r.skipWhitespaceAndComments(); err != nil {
			return KindInvalid, err
		}
	}
	if r.eof() {
		return KindInvalid, r.incomplete()
	}
	switch c := r.byteAt(r.pos); c {
	case '{':
		return KindBeginObject, nil
	case '}':
		return KindEndObject, nil
	case '[':
		return KindBeginArray, nil
	case ']':
		return KindEndArray, nil
	case '"':
		return KindString, nil
	case 't', 'f':
		return KindBool, nil
	case 'n':
		return KindNull, nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return KindNumber, nil
	default:
		return KindInvalid, r.syntaxErrorHere("invalid character")
	}
}

// beforeValue handles the comma/colon bookkeeping required before
// reading the next value in the current container: inside an object,
// names and values alternate across ':' and ',', tracked by the parity
// of the current frame's element count.
func (r *Reader[S]) beforeValue(isName bool) error {
	if err := r.skipWhitespaceAndComments(); err != nil {
		return err
	}
	if r.stack.depth() == 1 {
		return nil
	}
	if r.stack.top() && !isName && r.stack.count()%2 == 1 {
		if err := r.expectByte(':'); err != nil {
			return err
		}
		if err := r.skipWhitespaceAndComments(); err != nil {
			return err
		}
	} else if r.stack.count() > 0 {
		if err := r.expectByte(','); err != nil {
			return err
		}
		if err := r.skipWhitespaceAndComments(); err != nil {
			return err
		}
	}
	return nil
}

// consumeStringAt runs jsonwire.ConsumeString at the current position
// and reports whether a non-nil error means "need more data" (the
// string ran off the end of src) versus a genuine grammar violation.
func (r *Reader[S]) consumeStringAt() (n int, unterminated bool, err error) {
	n, _, err = jsonwire.ConsumeString(r.src[r.pos:])
	if err == jsonwire.ErrUnterminatedString {
		return n, true, err
	}
	return n, false, err
}

func (r *Reader[S]) expectByte(c byte) error {
	if r.eof() {
		return r.incomplete()
	}
	if r.byteAt(r.pos) != c {
		return r.syntaxErrorHere("expected '" + string(c) + "'")
	}
	r.advance(1)
	return nil
}

// incomplete reports a truncated token: the segmented reader signals
// ErrIncomplete so the caller can resubmit with more data, while the
// final-segment reader treats the same condition as a grammar error.
func (r *Reader[S]) incomplete() error {
	if r.opts.Segmented {
		return ErrIncomplete
	}
	return r.syntaxErrorHere("unexpected end of input")
}

// mark/restore snapshot the reader's full state at a token boundary so
// an in-progress segmented read can roll back on incomplete data.
type readerMark struct {
	pos  int
	line int64
	col  int64
}

func (r *Reader[S]) mark() readerMark { return readerMark{pos: r.pos, line: r.line, col: r.col} }

func (r *Reader[S]) restore(m readerMark) {
	r.pos = m.pos
	r.line = m.line
	r.col = m.col
}

// ReadBeginObject consumes '{' and descends into a new object frame.
func (r *Reader[S]) ReadBeginObject() error {
	if err := r.beforeValue(false); err != nil {
		return err
	}
	if r.stack.depth() > r.opts.ceiling() {
		return &ErrDepthExceeded{Ceiling: r.opts.ceiling()}
	}
	if err := r.expectByte('{'); err != nil {
		return err
	}
	r.stack.increment()
	r.stack.push(true)
	return nil
}

// ReadEndObjectOrComma reports whether the object at the current depth
// is finished: if so it consumes '}' and pops the frame; otherwise it
// consumes only whitespace and comments, leaving any ',' before the next
// member for the following read.
func (r *Reader[S]) ReadEndObjectOrComma() (done bool, err error) {
	return r.readEndOrComma('}')
}

// readEndOrComma detects the close of the current container, including
// a trailing comma before the close bracket when the policy allows one.
func (r *Reader[S]) readEndOrComma(close byte) (done bool, err error) {
	if err := r.skipWhitespaceAndComments(); err != nil {
		return false, err
	}
	if r.eof() {
		return false, r.incomplete()
	}
	if r.byteAt(r.pos) == close {
		r.advance(1)
		r.stack.pop()
		return true, nil
	}
	if r.byteAt(r.pos) == ',' && r.opts.AllowTrailingCommas {
		m := r.mark()
		r.advance(1)
		if err := r.skipWhitespaceAndComments(); err != nil {
			r.restore(m)
			return false, err
		}
		if !r.eof() && r.byteAt(r.pos) == close {
			r.advance(1)
			r.stack.pop()
			return true, nil
		}
		r.restore(m)
	}
	return false, nil
}

// ReadBeginArray consumes '[' and descends into a new array frame.
func (r *Reader[S]) ReadBeginArray() error {
	if err := r.beforeValue(false); err != nil {
		return err
	}
	if r.stack.depth() > r.opts.ceiling() {
		return &ErrDepthExceeded{Ceiling: r.opts.ceiling()}
	}
	if err := r.expectByte('['); err != nil {
		return err
	}
	r.stack.increment()
	r.stack.push(false)
	return nil
}

// ReadEndArrayOrComma mirrors ReadEndObjectOrComma for arrays.
func (r *Reader[S]) ReadEndArrayOrComma() (done bool, err error) {
	return r.readEndOrComma(']')
}

// ReadNull consumes the null literal.
func (r *Reader[S]) ReadNull() error {
	if err := r.beforeValue(false); err != nil {
		return err
	}
	if err := r.expectLiteral("null"); err != nil {
		return err
	}
	r.stack.increment()
	return nil
}

// ReadBool consumes the true/false literal.
func (r *Reader[S]) ReadBool() (bool, error) {
	if err := r.beforeValue(false); err != nil {
		return false, err
	}
	if r.eof() {
		return false, r.incomplete()
	}
	var v bool
	var lit string
	if r.byteAt(r.pos) == 't' {
		v, lit = true, "true"
	} else {
		v, lit = false, "false"
	}
	if err := r.expectLiteral(lit); err != nil {
		return false, err
	}
	r.stack.increment()
	return v, nil
}

func (r *Reader[S]) expectLiteral(lit string) error {
	if r.pos+len(lit) > len(r.src) {
		// Could still be a truncated prefix of lit; only incomplete if so.
		avail := len(r.src) - r.pos
		for i := 0; i < avail; i++ {
			if r.byteAt(r.pos+i) != lit[i] {
				return r.syntaxErrorHere("invalid literal")
			}
		}
		return r.incomplete()
	}
	for i := 0; i < len(lit); i++ {
		if r.byteAt(r.pos+i) != lit[i] {
			return r.syntaxErrorHere("invalid literal")
		}
	}
	r.advance(len(lit))
	return nil
}

// ReadNumberRaw returns the raw (unvalidated-beyond-grammar) symbol span
// of the next number literal, for the number decoder in internal/jsonwire
// to parse.
func (r *Reader[S]) ReadNumberRaw() ([]S, error) {
	if err := r.beforeValue(false); err != nil {
		return nil, err
	}
	raw := r.src[r.pos:]
	n, err := jsonwire.ConsumeNumber(raw)
	if err != nil {
		return nil, r.syntaxErrorHere(err.Error())
	}
	if n == len(raw) && r.opts.Segmented {
		// Cannot yet tell whether the number continues past this buffer.
		return nil, ErrIncomplete
	}
	tok := r.src[r.pos : r.pos+n]
	r.advance(n)
	r.stack.increment()
	return tok, nil
}

// ReadStringRaw returns the raw quoted symbol span (including the
// surrounding quotes) of the next string literal.
func (r *Reader[S]) ReadStringRaw() ([]S, error) {
	if err := r.beforeValue(false); err != nil {
		return nil, err
	}
	if r.eof() || r.byteAt(r.pos) != '"' {
		if r.eof() {
			return nil, r.incomplete()
		}
		return nil, r.syntaxErrorHere("expected string")
	}
	n, isUnterminated, err := r.consumeStringAt()
	if err != nil {
		if isUnterminated {
			return nil, r.incomplete()
		}
		return nil, r.syntaxErrorHere(err.Error())
	}
	tok := r.src[r.pos : r.pos+n]
	r.advance(n)
	r.stack.increment()
	return tok, nil
}

// ReadMemberNameRaw is ReadStringRaw specialised for object member
// names, which occupy the "name" half of the name/value count pair.
func (r *Reader[S]) ReadMemberNameRaw() ([]S, error) {
	if err := r.beforeValue(true); err != nil {
		return nil, err
	}
	if r.eof() || r.byteAt(r.pos) != '"' {
		if r.eof() {
			return nil, r.incomplete()
		}
		return nil, r.syntaxErrorHere("expected member name")
	}
	n, isUnterminated, err := r.consumeStringAt()
	if err != nil {
		if isUnterminated {
			return nil, r.incomplete()
		}
		return nil, r.syntaxErrorHere(err.Error())
	}
	tok := r.src[r.pos : r.pos+n]
	r.advance(n)
	r.stack.increment()
	return tok, nil
}

// IncDepth/DecDepth mirror Writer's recursion guard for the decode
// path; the guard applies symmetrically to both directions.
func (r *Reader[S]) IncDepth() error {
	if r.recursionDepth >= r.opts.ceiling() {
		return &ErrDepthExceeded{Ceiling: r.opts.ceiling()}
	}
	r.recursionDepth++
	return nil
}

func (r *Reader[S]) DecDepth() { r.recursionDepth-- }

// ReadValueRaw consumes the next complete value and returns its raw
// symbol span, with any leading separator and whitespace trimmed. Used
// by per-type formatter overrides that want the value text untouched.
func (r *Reader[S]) ReadValueRaw() ([]S, error) {
	start := r.pos
	if err := r.SkipValue(); err != nil {
		return nil, err
	}
	raw := r.src[start:r.pos]
	for len(raw) > 0 {
		switch byte(raw[0]) {
		case ',', ':', ' ', '\t', '\r', '\n':
			raw = raw[1:]
			continue
		}
		break
	}
	return raw, nil
}

// CheckEOF verifies that nothing but whitespace (and, per policy,
// comments) remains after the top-level value.
func (r *Reader[S]) CheckEOF() error {
	if err := r.skipWhitespaceAndComments(); err != nil {
		return err
	}
	if !r.eof() {
		return r.syntaxErrorHere("unexpected data after top-level value")
	}
	return nil
}

// SkipValue consumes and discards the next complete value, descending
// into nested containers as needed. Used by the decoder when a member
// does not map to any known destination field.
func (r *Reader[S]) SkipValue() error {
	kind, err := r.PeekKind()
	if err != nil {
		return err
	}
	switch kind {
	case KindBeginObject:
		if err := r.ReadBeginObject(); err != nil {
			return err
		}
		for {
			done, err := r.ReadEndObjectOrComma()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if _, err := r.ReadMemberNameRaw(); err != nil {
				return err
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	case KindBeginArray:
		if err := r.ReadBeginArray(); err != nil {
			return err
		}
		for {
			done, err := r.ReadEndArrayOrComma()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if err := r.SkipValue(); err != nil {
				return err
			}
		}
	case KindString:
		_, err := r.ReadStringRaw()
		return err
	case KindNumber:
		_, err := r.ReadNumberRaw()
		return err
	case KindNull:
		return r.ReadNull()
	case KindBool:
		_, err := r.ReadBool()
		return err
	default:
		return r.syntaxErrorHere("invalid value")
	}
}
