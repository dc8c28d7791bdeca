package formatter

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Precision selects how many sub-second digits follow the formatted
// date. The zero value is nanoseconds, the default.
type Precision uint8

const (
	// PrecisionNanoseconds renders 9 fractional digits (default)
	PrecisionNanoseconds Precision = iota
	// PrecisionMicroseconds renders 6 fractional digits
	PrecisionMicroseconds
	// PrecisionMilliseconds renders 3 fractional digits
	PrecisionMilliseconds
	// PrecisionNone renders no fractional part
	PrecisionNone
)

// Timezone selects the zone timestamps are rendered in. The zero value
// is local time, the default.
type Timezone uint8

const (
	// LocalTime renders timestamps in the process's local zone (default)
	LocalTime Timezone = iota
	// UTCTime renders timestamps in UTC
	UTCTime
)

// TimestampRenderer turns nanosecond epoch timestamps into text: the
// whole-second part through a strftime-style date format, followed by
// a truncated fraction whose width is fixed by the precision.
//
// The formatted whole-second string is cached and recomputed only when
// the second changes between calls, which makes consecutive records in
// the same second nearly free. The cache makes a renderer
// single-consumer, matching the formatter instance that owns it.
type TimestampRenderer struct {
	strf       *strftime.Strftime
	loc        *time.Location
	precision  Precision
	lastSecond int64
	cached     []byte
}

func newTimestampRenderer(dateFormat string, precision Precision, tz Timezone) (*TimestampRenderer, error) {
	strf, err := strftime.New(dateFormat)
	if err != nil {
		return nil, fmt.Errorf("date format %q: %w", dateFormat, err)
	}
	loc := time.Local
	if tz == UTCTime {
		loc = time.UTC
	}
	return &TimestampRenderer{
		strf:       strf,
		loc:        loc,
		precision:  precision,
		lastSecond: -1 << 62,
	}, nil
}

// AppendTimestamp appends the rendered timestamp for the given epoch
// nanoseconds.
func (t *TimestampRenderer) AppendTimestamp(dst []byte, nanos int64) []byte {
	sec := nanos / 1e9
	frac := nanos % 1e9
	if frac < 0 {
		sec--
		frac += 1e9
	}

	if sec != t.lastSecond {
		t.cached = append(t.cached[:0], t.strf.FormatString(time.Unix(sec, 0).In(t.loc))...)
		t.lastSecond = sec
	}
	dst = append(dst, t.cached...)

	// Truncated, never rounded.
	switch t.precision {
	case PrecisionMilliseconds:
		dst = append(dst, '.')
		dst = appendPadded(dst, frac/1e6, 3)
	case PrecisionMicroseconds:
		dst = append(dst, '.')
		dst = appendPadded(dst, frac/1e3, 6)
	case PrecisionNanoseconds:
		dst = append(dst, '.')
		dst = appendPadded(dst, frac, 9)
	}
	return dst
}

// appendPadded appends v zero-padded to exactly width digits.
func appendPadded(dst []byte, v int64, width int) []byte {
	var buf [9]byte
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return append(dst, buf[:width]...)
}
