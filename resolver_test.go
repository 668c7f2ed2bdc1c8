package gojson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/rnats/gojson/internal/jsonopts"
)

type concurrentDoc struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Child *concurrentDoc `json:"child"`
}

// TestConcurrentResolve hammers a fresh resolver from many goroutines
// so the first formatter build races with cache lookups; every caller
// must converge on the same working formatter.
func TestConcurrentResolve(t *testing.T) {
	r := NewResolver()
	in := concurrentDoc{ID: 1, Name: "n", Tags: []string{"a", "b"}, Child: &concurrentDoc{ID: 2}}
	want, err := r.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	r2 := NewResolver()
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			out, err := r2.Marshal(in)
			if err != nil {
				return err
			}
			if string(out) != string(want) {
				return fmt.Errorf("got %s, want %s", out, want)
			}
			var back concurrentDoc
			return r2.Unmarshal(out, &back)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestPoisonedCacheEntry(t *testing.T) {
	type bad struct {
		Ch chan int `json:"ch"`
	}
	r := NewResolver()
	_, err1 := r.Marshal(bad{})
	if err1 == nil {
		t.Fatal("a channel member must fail to serialize")
	}
	_, err2 := r.Marshal(bad{})
	if err2 == nil {
		t.Fatal("the poisoned entry must keep failing")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("poisoned entry produced different errors: %v vs %v", err1, err2)
	}
}

func TestUnsupportedInterfaceTarget(t *testing.T) {
	type doc struct {
		R interface{ Read([]byte) (int, error) } `json:"r"`
	}
	var d doc
	err := Unmarshal([]byte(`{"r":{}}`), &d)
	if err == nil {
		t.Fatal("decoding into a non-empty interface must fail")
	}
	var sem *SemanticError
	if !errors.As(err, &sem) {
		t.Errorf("got %T, want SemanticError", err)
	}
}

type celsius float64

func TestMarshalersOverride(t *testing.T) {
	r := NewResolver().WithMarshalers(MarshalFunc(func(c celsius) ([]byte, error) {
		return []byte(`"` + strconv.FormatFloat(float64(c), 'f', 1, 64) + `C"`), nil
	}))
	type doc struct {
		Temp celsius `json:"temp"`
	}
	out, err := r.Marshal(doc{Temp: 21.5})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"temp":"21.5C"}` {
		t.Errorf("got %s", out)
	}
}

func TestUnmarshalersOverride(t *testing.T) {
	r := NewResolver().WithUnmarshalers(UnmarshalFunc(func(raw []byte) (celsius, error) {
		s := strings.TrimSuffix(strings.Trim(string(raw), `"`), "C")
		f, err := strconv.ParseFloat(s, 64)
		return celsius(f), err
	}))
	type doc struct {
		Temp celsius `json:"temp"`
	}
	var d doc
	if err := r.Unmarshal([]byte(`{"temp":"21.5C"}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Temp != 21.5 {
		t.Errorf("temp = %v", d.Temp)
	}
}

func TestJoinMarshalers(t *testing.T) {
	type a struct{}
	type b struct{}
	ma := MarshalFunc(func(a) ([]byte, error) { return []byte(`"a"`), nil })
	mb := MarshalFunc(func(b) ([]byte, error) { return []byte(`"b"`), nil })
	r := NewResolver().WithMarshalers(JoinMarshalers(ma, mb))
	outA, err := r.Marshal(a{})
	if err != nil {
		t.Fatal(err)
	}
	outB, err := r.Marshal(b{})
	if err != nil {
		t.Fatal(err)
	}
	if string(outA) != `"a"` || string(outB) != `"b"` {
		t.Errorf("got %s and %s", outA, outB)
	}
}

func TestResolverPoliciesAreIndependent(t *testing.T) {
	type doc struct{ N int }
	camel := NewResolver(Naming(jsonopts.CamelCase))
	asIs := NewResolver()
	outCamel, err := camel.Marshal(doc{N: 1})
	if err != nil {
		t.Fatal(err)
	}
	outAsIs, err := asIs.Marshal(doc{N: 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(outCamel) != `{"n":1}` {
		t.Errorf("camel: got %s", outCamel)
	}
	if string(outAsIs) != `{"N":1}` {
		t.Errorf("as-declared: got %s", outAsIs)
	}
}
