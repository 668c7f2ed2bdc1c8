package jsontext

import (
	"errors"
	"testing"
	"unicode/utf16"

	"github.com/rnats/gojson/internal/jsonwire"
)

func TestWriterObject(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{})
	if err := w.WriteBeginObject(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("a"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRawASCII([]byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("b"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBeginArray(); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"2", "3", "4"} {
		if err := w.WriteRawASCII([]byte(n)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteEndArray(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("c"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBeginObject(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteString("d"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEndObject(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEndObject(); err != nil {
		t.Fatal(err)
	}
	got := string(w.Finalize())
	want := `{"a":1,"b":[2,3,4],"c":{"d":true}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWriterWideLaneMatchesByteLane(t *testing.T) {
	build := func(w interface {
		WriteBeginObject() error
		WriteString(string) error
		WriteNull() error
		WriteEndObject() error
	}) {
		if err := w.WriteBeginObject(); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteString("k"); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteNull(); err != nil {
			t.Fatal(err)
		}
		if err := w.WriteEndObject(); err != nil {
			t.Fatal(err)
		}
	}
	narrow := NewWriter[uint8](WriterOptions{})
	build(narrow)
	wide := NewWriter[uint16](WriterOptions{})
	build(wide)
	if got, want := string(utf16.Decode(wide.Finalize())), string(narrow.Finalize()); got != want {
		t.Errorf("wide lane %q != byte lane %q", got, want)
	}
}

func TestWriterEscapes(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{})
	if err := w.WriteString("a\"b\\c\x01"); err != nil {
		t.Fatal(err)
	}
	got := string(w.Finalize())
	want := `"a\"b\\c\u0001"`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	wide := NewWriter[uint16](WriterOptions{})
	if err := wide.WriteString("a\"b\\c\x01"); err != nil {
		t.Fatal(err)
	}
	if g := string(utf16.Decode(wide.Finalize())); g != want {
		t.Errorf("wide lane got %s, want %s", g, want)
	}
}

func TestWriterEscapeNonASCII(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{Escape: jsonwire.NewTable(jsonwire.ModeEscapeNonASCII)})
	if err := w.WriteString("π\U0001F600"); err != nil {
		t.Fatal(err)
	}
	got := string(w.Finalize())
	want := `"\u03c0\ud83d\ude00"`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWriterEscapeHTML(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{Escape: jsonwire.NewTable(jsonwire.ModeEscapeHTML)})
	if err := w.WriteString("a<b>&'+"); err != nil {
		t.Fatal(err)
	}
	got := string(w.Finalize())
	want := `"a\u003cb\u003e\u0026\u0027\u002b"`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWriterDepthGuard(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{})
	var err error
	for i := 0; i < 65; i++ {
		if err = w.WriteBeginArray(); err != nil {
			break
		}
	}
	var depth *ErrDepthExceeded
	if !errors.As(err, &depth) {
		t.Fatalf("got %v, want ErrDepthExceeded", err)
	}

	shallow := NewWriter[uint8](WriterOptions{MaxDepth: 4})
	for i := 0; i < 4; i++ {
		if err := shallow.WriteBeginArray(); err != nil {
			t.Fatalf("depth %d: %v", i+1, err)
		}
	}
	if err := shallow.WriteBeginArray(); err == nil {
		t.Fatal("configured ceiling of 4 must reject a fifth level")
	}
}

func TestWriterMemberNameVerbatim(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{})
	if err := w.WriteBeginObject(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteMemberName([]uint8(`"id"`)); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRawASCII([]byte("7")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEndObject(); err != nil {
		t.Fatal(err)
	}
	if got := string(w.Finalize()); got != `{"id":7}` {
		t.Errorf("got %s", got)
	}
}

func TestWriterRawValue(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{})
	if err := w.WriteBeginArray(); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRawValue([]byte(`{"x":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRawValue([]byte(`2`)); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteEndArray(); err != nil {
		t.Fatal(err)
	}
	if got := string(w.Finalize()); got != `[{"x":1},2]` {
		t.Errorf("got %s", got)
	}
}

func TestWriterFinalizeCopies(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{})
	if err := w.WriteBool(false); err != nil {
		t.Fatal(err)
	}
	if w.Len() != len("false") {
		t.Errorf("Len = %d", w.Len())
	}
	out := w.Finalize()
	if string(out) != "false" {
		t.Errorf("got %s", out)
	}
	if w.Len() != 0 {
		t.Error("finalize must leave the writer without a buffer")
	}
}

func TestWriterRecursionGuard(t *testing.T) {
	w := NewWriter[uint8](WriterOptions{MaxDepth: 2})
	if err := w.IncDepth(); err != nil {
		t.Fatal(err)
	}
	if err := w.IncDepth(); err != nil {
		t.Fatal(err)
	}
	if err := w.IncDepth(); err == nil {
		t.Fatal("third IncDepth must trip the guard at ceiling 2")
	}
	w.DecDepth()
	if err := w.IncDepth(); err != nil {
		t.Fatal(err)
	}
}
