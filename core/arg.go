package core

import (
	"fmt"
	"strconv"
	"time"
)

// ArgKind represents the type of a captured argument
type ArgKind uint8

const (
	StringKind ArgKind = iota
	IntKind
	UintKind
	Float64Kind
	BoolKind
	BytesKind
	TimeKind
	DurationKind
	// RunesKind and UTF16Kind mark wide-character arguments. They are
	// rendered through the formatter's transcoding path instead of
	// being appended as narrow bytes.
	RunesKind
	UTF16Kind
)

// Arg is one captured logging argument. Values are encoded into the
// fixed numeric slots (Num, Float) wherever possible; Str holds string
// data and Slice holds owned copies of slice-backed arguments.
type Arg struct {
	Kind  ArgKind
	Num   int64
	Float float64
	Str   string
	Bytes []byte
	Runes []rune
	UTF16 []uint16
}

// Capture promotes the caller's arguments into owned Arg values. The
// record these land in outlives the calling stack frame, so anything
// view-like is copied: byte slices are duplicated, errors and
// Stringers are flattened to strings immediately, and arbitrary values
// go through fmt.Sprint on the calling goroutine rather than being
// retained by reference.
func Capture(args []any) []Arg {
	if len(args) == 0 {
		return nil
	}
	out := make([]Arg, len(args))
	for i, a := range args {
		out[i] = capture(a)
	}
	return out
}

func capture(a any) Arg {
	switch v := a.(type) {
	case string:
		return Arg{Kind: StringKind, Str: v}
	case int:
		return Arg{Kind: IntKind, Num: int64(v)}
	case int8:
		return Arg{Kind: IntKind, Num: int64(v)}
	case int16:
		return Arg{Kind: IntKind, Num: int64(v)}
	case int32:
		return Arg{Kind: IntKind, Num: int64(v)}
	case int64:
		return Arg{Kind: IntKind, Num: v}
	case uint:
		return Arg{Kind: UintKind, Num: int64(v)}
	case uint8:
		return Arg{Kind: UintKind, Num: int64(v)}
	case uint16:
		return Arg{Kind: UintKind, Num: int64(v)}
	case uint32:
		return Arg{Kind: UintKind, Num: int64(v)}
	case uint64:
		return Arg{Kind: UintKind, Num: int64(v)}
	case float32:
		return Arg{Kind: Float64Kind, Float: float64(v)}
	case float64:
		return Arg{Kind: Float64Kind, Float: v}
	case bool:
		n := int64(0)
		if v {
			n = 1
		}
		return Arg{Kind: BoolKind, Num: n}
	case []byte:
		b := make([]byte, len(v))
		copy(b, v)
		return Arg{Kind: BytesKind, Bytes: b}
	case []rune:
		r := make([]rune, len(v))
		copy(r, v)
		return Arg{Kind: RunesKind, Runes: r}
	case []uint16:
		u := make([]uint16, len(v))
		copy(u, v)
		return Arg{Kind: UTF16Kind, UTF16: u}
	case time.Time:
		return Arg{Kind: TimeKind, Num: v.UnixNano()}
	case time.Duration:
		return Arg{Kind: DurationKind, Num: int64(v)}
	case error:
		return Arg{Kind: StringKind, Str: v.Error()}
	case fmt.Stringer:
		return Arg{Kind: StringKind, Str: v.String()}
	default:
		return Arg{Kind: StringKind, Str: fmt.Sprint(v)}
	}
}

// clone returns an independently owned copy of the argument.
func (a Arg) clone() Arg {
	c := a
	if a.Bytes != nil {
		c.Bytes = make([]byte, len(a.Bytes))
		copy(c.Bytes, a.Bytes)
	}
	if a.Runes != nil {
		c.Runes = make([]rune, len(a.Runes))
		copy(c.Runes, a.Runes)
	}
	if a.UTF16 != nil {
		c.UTF16 = make([]uint16, len(a.UTF16))
		copy(c.UTF16, a.UTF16)
	}
	return c
}

// Wide reports whether the argument must be rendered through the
// wide-character transcoding path.
func (a Arg) Wide() bool {
	return a.Kind == RunesKind || a.Kind == UTF16Kind
}

// AppendValue appends the narrow text representation of the argument.
// Wide arguments are excluded; callers route them through transcoding.
func (a Arg) AppendValue(dst []byte) []byte {
	switch a.Kind {
	case StringKind:
		return append(dst, a.Str...)
	case IntKind:
		return strconv.AppendInt(dst, a.Num, 10)
	case UintKind:
		return strconv.AppendUint(dst, uint64(a.Num), 10)
	case Float64Kind:
		return strconv.AppendFloat(dst, a.Float, 'g', -1, 64)
	case BoolKind:
		return strconv.AppendBool(dst, a.Num == 1)
	case BytesKind:
		return append(dst, a.Bytes...)
	case TimeKind:
		return time.Unix(0, a.Num).AppendFormat(dst, time.RFC3339)
	case DurationKind:
		return append(dst, time.Duration(a.Num).String()...)
	default:
		return dst
	}
}
