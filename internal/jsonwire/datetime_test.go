package jsonwire

import (
	"testing"
	"time"
)

func TestParseDateTimeDateOnlyIsLocalMidnight(t *testing.T) {
	got, hasOffset, isUTC, err := ParseDateTime([]byte("1997-07-16"))
	if err != nil {
		t.Fatal(err)
	}
	if hasOffset || isUTC {
		t.Error("a date-only value carries no offset")
	}
	if got.Location() != time.Local {
		t.Error("date-only value should be in local time")
	}
	y, m, d := got.Date()
	if y != 1997 || m != time.July || d != 16 {
		t.Errorf("got %v", got)
	}
}

func TestParseDateTimeUTCRoundTrip(t *testing.T) {
	src := []byte("2024-03-05T12:30:45.1234567Z")
	got, hasOffset, isUTC, err := ParseDateTime(src)
	if err != nil {
		t.Fatal(err)
	}
	if !hasOffset || !isUTC {
		t.Error("expected UTC offset")
	}
	out := AppendDateTime(nil, got, hasOffset, isUTC)
	if string(out) != string(src) {
		t.Errorf("round trip mismatch: got %q, want %q", out, src)
	}
}

func TestParseDateTimeFractionalPadding(t *testing.T) {
	got, _, _, err := ParseDateTime([]byte("2024-01-01T00:00:00.5Z"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Nanosecond() != 500000000 {
		t.Errorf("got %d ns, want 500000000", got.Nanosecond())
	}
}

func TestParseDateTimeFractionalTruncation(t *testing.T) {
	got, _, _, err := ParseDateTime([]byte("2024-01-01T00:00:00.123456789999Z"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Nanosecond() != 123456700 {
		t.Errorf("got %d ns, want 123456700", got.Nanosecond())
	}
}

func TestParseDateTimeOffset(t *testing.T) {
	got, hasOffset, isUTC, err := ParseDateTime([]byte("2024-01-01T00:00:00-05:30"))
	if err != nil {
		t.Fatal(err)
	}
	if !hasOffset || isUTC {
		t.Error("expected a non-UTC offset")
	}
	_, off := got.Zone()
	if off != -(5*3600 + 30*60) {
		t.Errorf("offset = %d", off)
	}
}

func TestParseDateTimeRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2024-01-0X", "2024/01/01", "2024-01-01T00:0X", "2024-01-01T00:00:00.Z"} {
		if _, _, _, err := ParseDateTime([]byte(s)); err == nil {
			t.Errorf("ParseDateTime(%q): expected error", s)
		}
	}
}

func TestTimeSpanRoundTrip(t *testing.T) {
	d := 36*time.Hour + 15*time.Minute + 3*time.Second + 500*time.Microsecond
	out := AppendTimeSpan(nil, d)
	got, err := ParseTimeSpan(out)
	if err != nil {
		t.Fatalf("ParseTimeSpan(%q): %v", out, err)
	}
	if got != d {
		t.Errorf("got %v, want %v", got, d)
	}
}

func TestTimeSpanNegative(t *testing.T) {
	d := -(2*time.Hour + 5*time.Minute)
	out := AppendTimeSpan(nil, d)
	got, err := ParseTimeSpan(out)
	if err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("got %v, want %v", got, d)
	}
}
