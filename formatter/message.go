package formatter

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wicklog/wick/core"
)

var (
	// ErrArgumentMismatch is returned when a message template's {}
	// placeholders do not line up with the captured arguments.
	ErrArgumentMismatch = errors.New("message arguments do not match template")

	// ErrWideTranscode is returned when a wide-character argument
	// cannot be transcoded to UTF-8.
	ErrWideTranscode = errors.New("wide argument transcoding failed")
)

// appendMessage expands the call site's message template, filling each
// {} placeholder with the next captured argument. {{ and }} render
// literal braces. Wide arguments route through transcodeWide so the
// output stays valid UTF-8.
func appendMessage(dst []byte, template string, args []core.Arg) ([]byte, error) {
	next := 0
	for i := 0; i < len(template); {
		c := template[i]
		if c == '{' && i+1 < len(template) {
			if template[i+1] == '}' {
				if next >= len(args) {
					return dst, fmt.Errorf("%w: template %q needs more than %d argument(s)",
						ErrArgumentMismatch, template, len(args))
				}
				a := args[next]
				if a.Wide() {
					var err error
					if dst, err = transcodeWide(dst, a); err != nil {
						return dst, err
					}
				} else {
					dst = a.AppendValue(dst)
				}
				next++
				i += 2
				continue
			}
			if template[i+1] == '{' {
				dst = append(dst, '{')
				i += 2
				continue
			}
		}
		if c == '}' && i+1 < len(template) && template[i+1] == '}' {
			dst = append(dst, '}')
			i += 2
			continue
		}
		dst = append(dst, c)
		i++
	}
	if next != len(args) {
		return dst, fmt.Errorf("%w: template %q consumed %d of %d argument(s)",
			ErrArgumentMismatch, template, next, len(args))
	}
	return dst, nil
}

// transcodeWide decodes a wide-character argument through an
// intermediate rune sequence and appends it as UTF-8. Unpaired
// surrogates and invalid runes are transcoding errors; the record
// fails rather than emitting mangled bytes.
func transcodeWide(dst []byte, a core.Arg) ([]byte, error) {
	var runes []rune
	switch a.Kind {
	case core.RunesKind:
		runes = a.Runes
	case core.UTF16Kind:
		if err := validateUTF16(a.UTF16); err != nil {
			return dst, err
		}
		runes = utf16.Decode(a.UTF16)
	default:
		return dst, fmt.Errorf("%w: kind %d is not wide", ErrWideTranscode, a.Kind)
	}

	for _, r := range runes {
		if !utf8.ValidRune(r) {
			return dst, fmt.Errorf("%w: invalid rune %#x", ErrWideTranscode, r)
		}
		dst = utf8.AppendRune(dst, r)
	}
	return dst, nil
}

func validateUTF16(u []uint16) error {
	for i := 0; i < len(u); i++ {
		c := u[i]
		switch {
		case c >= 0xD800 && c < 0xDC00:
			if i+1 >= len(u) || u[i+1] < 0xDC00 || u[i+1] >= 0xE000 {
				return fmt.Errorf("%w: unpaired high surrogate at index %d", ErrWideTranscode, i)
			}
			i++
		case c >= 0xDC00 && c < 0xE000:
			return fmt.Errorf("%w: unpaired low surrogate at index %d", ErrWideTranscode, i)
		}
	}
	return nil
}
