package fields

import (
	"reflect"
	"strings"
	"testing"
)

type basic struct {
	Name    string
	Count   int    `json:"count"`
	Skipped string `json:"-"`
	hidden  string
	Empty   string `json:"empty,omitempty"`
	Zero    int    `json:",omitzero"`
}

func TestDescribeBasic(t *testing.T) {
	d, err := Describe(reflect.TypeOf(basic{}), AsDeclared)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(d.Members))
	for i, m := range d.Members {
		names[i] = m.JSONName
	}
	want := []string{"Name", "count", "empty", "Zero"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("members = %v, want %v", names, want)
	}
	for _, m := range d.Members {
		switch m.JSONName {
		case "empty":
			if !m.OmitEmpty {
				t.Error("Empty should carry omitempty")
			}
		case "Zero":
			if !m.OmitZero {
				t.Error("Zero should carry omitzero")
			}
		}
	}
	if d.Recursive {
		t.Error("basic is not a recursion candidate")
	}
	_ = hiddenRef(basic{})
}

// hiddenRef keeps the unexported field referenced so vet does not flag
// it as unused; Describe itself must skip it.
func hiddenRef(b basic) string { return b.hidden }

func TestDescribeNaming(t *testing.T) {
	type s struct {
		UserID     int
		HTTPServer string
	}
	d, err := Describe(reflect.TypeOf(s{}), SnakeCase)
	if err != nil {
		t.Fatal(err)
	}
	if d.Members[0].JSONName != "user_id" {
		t.Errorf("got %q, want user_id", d.Members[0].JSONName)
	}
	if d.Members[1].JSONName != "http_server" {
		t.Errorf("got %q, want http_server", d.Members[1].JSONName)
	}
}

func TestDescribeTagNameBeatsNaming(t *testing.T) {
	type s struct {
		UserID int `json:"uid"`
	}
	d, err := Describe(reflect.TypeOf(s{}), SnakeCase)
	if err != nil {
		t.Fatal(err)
	}
	if d.Members[0].JSONName != "uid" {
		t.Errorf("got %q, want uid (explicit tag names are not renamed)", d.Members[0].JSONName)
	}
}

type embedded struct {
	Inner
	Own int `json:"own"`
}

type Inner struct {
	A int `json:"a"`
	B int `json:"b"`
}

func TestDescribeEmbeddedPromotion(t *testing.T) {
	d, err := Describe(reflect.TypeOf(embedded{}), AsDeclared)
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]Member{}
	for _, m := range d.Members {
		byName[m.JSONName] = m
	}
	if got, ok := byName["a"]; !ok || len(got.Index) != 2 {
		t.Errorf("promoted member a index = %v, want a two-level path", got.Index)
	}
	if got, ok := byName["own"]; !ok || len(got.Index) != 1 {
		t.Errorf("own index = %v, want a direct field", got.Index)
	}
	// Direct members carry the reflect2 accessor; promoted members keep
	// the index-path walk.
	if byName["a"].Field != nil {
		t.Error("a promoted member must not carry a direct accessor")
	}
	if byName["own"].Field == nil {
		t.Error("a direct member must carry the reflect2 accessor")
	}
}

func TestDirectMemberAccessor(t *testing.T) {
	type s struct {
		N int    `json:"n"`
		S string `json:"s"`
	}
	d, err := Describe(reflect.TypeOf(s{}), AsDeclared)
	if err != nil {
		t.Fatal(err)
	}
	v := s{N: 42, S: "x"}
	for _, m := range d.Members {
		if m.Field == nil {
			t.Fatalf("member %s has no accessor", m.JSONName)
		}
		got := m.Field.Get(&v)
		switch m.JSONName {
		case "n":
			if *got.(*int) != 42 {
				t.Errorf("n = %v", got)
			}
		case "s":
			if *got.(*string) != "x" {
				t.Errorf("s = %v", got)
			}
		}
	}
}

func TestDescribeEmbeddedWithNameStaysMember(t *testing.T) {
	type outer struct {
		Inner `json:"inner"`
	}
	d, err := Describe(reflect.TypeOf(outer{}), AsDeclared)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Members) != 1 || d.Members[0].JSONName != "inner" {
		t.Errorf("members = %+v, want a single member named inner", d.Members)
	}
}

func TestDescribeExtension(t *testing.T) {
	type s struct {
		Known int            `json:"known"`
		Rest  map[string]any `json:",unknown"`
	}
	d, err := Describe(reflect.TypeOf(s{}), AsDeclared)
	if err != nil {
		t.Fatal(err)
	}
	if d.Extension == nil {
		t.Fatal("extension member not detected")
	}
	if d.Extension.GoName != "Rest" {
		t.Errorf("extension = %q, want Rest", d.Extension.GoName)
	}
	if len(d.Members) != 1 {
		t.Errorf("the extension slot must not appear among ordinary members: %+v", d.Members)
	}
}

func TestDescribeDuplicateNames(t *testing.T) {
	type s struct {
		A int `json:"x"`
		B int `json:"x"`
	}
	if _, err := Describe(reflect.TypeOf(s{}), AsDeclared); err == nil {
		t.Fatal("duplicate JSON names must be rejected")
	}
}

type node struct {
	Value    int     `json:"value"`
	Children []*node `json:"children"`
}

func TestDescribeRecursionCandidate(t *testing.T) {
	d, err := Describe(reflect.TypeOf(node{}), AsDeclared)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Recursive {
		t.Error("a self-referential type must be marked as a recursion candidate")
	}
}

func TestEscapeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`qu"ote`, `qu\"ote`},
		{`back\slash`, `back\\slash`},
		{"tab\there", `tab\there`},
		{"ctrl\x01", `ctrl\u0001`},
	}
	for _, tt := range tests {
		if got := string(escapeName(tt.in)); got != tt.want {
			t.Errorf("escapeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildNamePlan(t *testing.T) {
	short := buildNamePlan([]byte("id"))
	if len(short) != 1 || string(short[0]) != "id" {
		t.Errorf("short plan = %v", short)
	}
	long := buildNamePlan([]byte(strings.Repeat("x", 70)))
	if len(long) != 3 {
		t.Errorf("long plan has %d chunks, want 3", len(long))
	}
	var total int
	for _, c := range long {
		total += len(c)
	}
	if total != 70 {
		t.Errorf("plan chunks cover %d bytes, want 70", total)
	}
}
