package jsonwire

import (
	"errors"
	"time"
)

var (
	errInvalidDateTime = errors.New("jsonwire: invalid ISO-8601 date/time")
	errInvalidTimeSpan = errors.New("jsonwire: invalid timespan")
)

// ParseDateTime parses the strict ISO-8601 extended grammar:
//
//	YYYY-MM-DDThh:mm[:ss[.fraction]][Z|±hh:mm]
//
// and a date-only form YYYY-MM-DD, which parses as local midnight on
// that date. Fractional seconds accept up to 16 digits; only
// the first 7 (100-nanosecond resolution) are retained, and the value
// is right-padded with zeros if fewer than 7 digits were given.
//
// hasOffset reports whether a 'Z' or explicit ±hh:mm offset was present.
// isUTC additionally reports whether the offset was exactly 'Z'.
func ParseDateTime(src []byte) (t time.Time, hasOffset, isUTC bool, err error) {
	if len(src) < 10 {
		return time.Time{}, false, false, errInvalidDateTime
	}
	year, ok1 := digits4(src[0:4])
	if src[4] != '-' {
		return time.Time{}, false, false, errInvalidDateTime
	}
	month, ok2 := digits2(src[5:7])
	if src[7] != '-' {
		return time.Time{}, false, false, errInvalidDateTime
	}
	day, ok3 := digits2(src[8:10])
	if !ok1 || !ok2 || !ok3 {
		return time.Time{}, false, false, errInvalidDateTime
	}

	if len(src) == 10 {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), false, false, nil
	}
	if src[10] != 'T' || len(src) < 16 {
		return time.Time{}, false, false, errInvalidDateTime
	}
	hour, ok4 := digits2(src[11:13])
	if src[13] != ':' {
		return time.Time{}, false, false, errInvalidDateTime
	}
	minute, ok5 := digits2(src[14:16])
	if !ok4 || !ok5 {
		return time.Time{}, false, false, errInvalidDateTime
	}

	rest := src[16:]
	sec := 0
	var ns int
	if len(rest) > 0 && rest[0] == ':' {
		if len(rest) < 3 {
			return time.Time{}, false, false, errInvalidDateTime
		}
		var ok6 bool
		sec, ok6 = digits2(rest[1:3])
		if !ok6 {
			return time.Time{}, false, false, errInvalidDateTime
		}
		rest = rest[3:]
		if len(rest) > 0 && rest[0] == '.' {
			j := 1
			for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
				j++
			}
			fracDigits := rest[1:j]
			if len(fracDigits) == 0 || len(fracDigits) > 16 {
				return time.Time{}, false, false, errInvalidDateTime
			}
			ticks := fracTicks(fracDigits)
			ns = int(ticks) * 100
			rest = rest[j:]
		}
	}

	loc := time.Local
	switch {
	case len(rest) == 0:
		hasOffset, isUTC = false, false
	case rest[0] == 'Z':
		if len(rest) != 1 {
			return time.Time{}, false, false, errInvalidDateTime
		}
		loc = time.UTC
		hasOffset, isUTC = true, true
	case rest[0] == '+' || rest[0] == '-':
		if len(rest) != 6 || rest[3] != ':' {
			return time.Time{}, false, false, errInvalidDateTime
		}
		offH, ok7 := digits2(rest[1:3])
		offM, ok8 := digits2(rest[4:6])
		if !ok7 || !ok8 {
			return time.Time{}, false, false, errInvalidDateTime
		}
		offsetSec := (offH*60 + offM) * 60
		if rest[0] == '-' {
			offsetSec = -offsetSec
		}
		loc = time.FixedZone("", offsetSec)
		hasOffset, isUTC = true, false
	default:
		return time.Time{}, false, false, errInvalidDateTime
	}

	t = time.Date(year, time.Month(month), day, hour, minute, sec, ns, loc)
	return t, hasOffset, isUTC, nil
}

// AppendDateTime always formats t in the fractional-seconds form
// YYYY-MM-DDThh:mm:ss.fffffff, followed by 'Z' when isUTC is set, by
// ±hh:mm when hasOffset is set without isUTC, and by no suffix when
// hasOffset is false.
func AppendDateTime(dst []byte, t time.Time, hasOffset, isUTC bool) []byte {
	y, m, d := t.Date()
	dst = append4(dst, y)
	dst = append(dst, '-')
	dst = append2(dst, int(m))
	dst = append(dst, '-')
	dst = append2(dst, d)
	dst = append(dst, 'T')
	dst = append2(dst, t.Hour())
	dst = append(dst, ':')
	dst = append2(dst, t.Minute())
	dst = append(dst, ':')
	dst = append2(dst, t.Second())
	dst = append(dst, '.')
	dst = append7(dst, t.Nanosecond()/100)
	if !hasOffset {
		return dst
	}
	if isUTC {
		return append(dst, 'Z')
	}
	_, offsetSec := t.Zone()
	sign := byte('+')
	if offsetSec < 0 {
		sign = '-'
		offsetSec = -offsetSec
	}
	dst = append(dst, sign)
	dst = append2(dst, offsetSec/3600)
	dst = append(dst, ':')
	dst = append2(dst, (offsetSec/60)%60)
	return dst
}

// ParseTimeSpan parses the grammar [-][d.]hh:mm:ss[.fffffff].
func ParseTimeSpan(src []byte) (d time.Duration, err error) {
	neg := false
	i := 0
	if i < len(src) && src[i] == '-' {
		neg = true
		i++
	}
	days := 0
	// Look ahead for a "d." prefix: digits followed by '.' before the
	// first ':'.
	dot := -1
	colon := -1
	for j := i; j < len(src); j++ {
		switch src[j] {
		case '.':
			if colon == -1 && dot == -1 {
				dot = j
			}
		case ':':
			if colon == -1 {
				colon = j
			}
		}
	}
	if dot != -1 && colon != -1 && dot < colon {
		var ok bool
		days, ok = parseDigits(src[i:dot])
		if !ok {
			return 0, errInvalidTimeSpan
		}
		i = dot + 1
	}
	if len(src)-i < 8 || src[i+2] != ':' || src[i+5] != ':' {
		return 0, errInvalidTimeSpan
	}
	hour, ok1 := digits2(src[i : i+2])
	minute, ok2 := digits2(src[i+3 : i+5])
	sec, ok3 := digits2(src[i+6 : i+8])
	if !ok1 || !ok2 || !ok3 {
		return 0, errInvalidTimeSpan
	}
	i += 8
	var ns int
	if i < len(src) && src[i] == '.' {
		j := i + 1
		for j < len(src) && src[j] >= '0' && src[j] <= '9' {
			j++
		}
		ns = int(fracTicks(src[i+1:j])) * 100
		i = j
	}
	if i != len(src) {
		return 0, errInvalidTimeSpan
	}
	total := time.Duration(days)*24*time.Hour +
		time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ns)*time.Nanosecond
	if neg {
		total = -total
	}
	return total, nil
}

// AppendTimeSpan formats d per the same grammar.
func AppendTimeSpan(dst []byte, d time.Duration) []byte {
	if d < 0 {
		dst = append(dst, '-')
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hour := d / time.Hour
	d -= hour * time.Hour
	minute := d / time.Minute
	d -= minute * time.Minute
	sec := d / time.Second
	d -= sec * time.Second
	ticks := int(d / 100)
	if days > 0 {
		dst = appendIntPadded(dst, int(days), 1)
		dst = append(dst, '.')
	}
	dst = append2(dst, int(hour))
	dst = append(dst, ':')
	dst = append2(dst, int(minute))
	dst = append(dst, ':')
	dst = append2(dst, int(sec))
	if ticks > 0 {
		dst = append(dst, '.')
		dst = append7(dst, ticks)
	}
	return dst
}

func digits2(b []byte) (int, bool) {
	if len(b) != 2 || !isDigit(b[0]) || !isDigit(b[1]) {
		return 0, false
	}
	return int(b[0]-'0')*10 + int(b[1]-'0'), true
}

func digits4(b []byte) (int, bool) {
	v := 0
	for _, c := range b {
		if !isDigit(c) {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

func parseDigits(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	v := 0
	for _, c := range b {
		if !isDigit(c) {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

// fracTicks converts up to 16 fractional-second digits into 100ns ticks
// (0-9999999), truncating beyond 7 digits and zero-padding if fewer.
func fracTicks(digits []byte) int64 {
	if len(digits) > 16 {
		digits = digits[:16]
	}
	var buf [7]byte
	for i := range buf {
		if i < len(digits) {
			buf[i] = digits[i]
		} else {
			buf[i] = '0'
		}
	}
	var v int64
	for _, c := range buf {
		v = v*10 + int64(c-'0')
	}
	return v
}

func append2(dst []byte, v int) []byte {
	return append(dst, byte('0'+v/10), byte('0'+v%10))
}

func append4(dst []byte, v int) []byte {
	return append(dst, byte('0'+(v/1000)%10), byte('0'+(v/100)%10), byte('0'+(v/10)%10), byte('0'+v%10))
}

func append7(dst []byte, v int) []byte {
	var buf [7]byte
	for i := 6; i >= 0; i-- {
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return append(dst, buf[:]...)
}

func appendIntPadded(dst []byte, v, minDigits int) []byte {
	return AppendInt(dst, int64(v))
}
