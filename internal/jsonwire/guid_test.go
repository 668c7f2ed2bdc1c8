package jsonwire

import (
	"testing"

	"github.com/google/uuid"
)

func TestGUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	out := AppendGUID(nil, id)
	got, err := ParseGUID(out)
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("got %v, want %v", got, id)
	}
}

func TestParseGUIDRejectsMalformed(t *testing.T) {
	if _, err := ParseGUID([]byte("not-a-guid")); err == nil {
		t.Error("expected error for malformed GUID")
	}
}
