package formatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wicklog/wick/core"
)

var (
	// ErrMissingMessage is returned when a layout pattern does not
	// contain exactly one %(message) placeholder.
	ErrMissingMessage = errors.New("pattern must contain exactly one %(message) placeholder")

	// ErrUnknownAttribute is returned when a %(name) token does not
	// match any recognized attribute.
	ErrUnknownAttribute = errors.New("unrecognized pattern attribute")
)

// EventContext carries the fixed per-event inputs attribute resolvers
// may depend on. Resolvers never see user message arguments.
type EventContext struct {
	Timestamp  int64
	ThreadID   string
	LoggerName string
	Meta       *core.Metadata
	Time       *TimestampRenderer
}

// Resolver appends one attribute's text for the event. Resolvers are
// pure functions of the event context; they hold no formatter state,
// which is what keeps compiled plans freestanding and movable.
type Resolver func(dst []byte, ctx *EventContext) []byte

// attributeResolvers is the closed set of recognized %(name) tokens.
var attributeResolvers = map[string]Resolver{
	"ascii_time": func(dst []byte, ctx *EventContext) []byte {
		return ctx.Time.AppendTimestamp(dst, ctx.Timestamp)
	},
	"filename": func(dst []byte, ctx *EventContext) []byte {
		return append(dst, ctx.Meta.ShortFile...)
	},
	"pathname": func(dst []byte, ctx *EventContext) []byte {
		return append(dst, ctx.Meta.File...)
	},
	"function_name": func(dst []byte, ctx *EventContext) []byte {
		return append(dst, ctx.Meta.Function...)
	},
	"level_name": func(dst []byte, ctx *EventContext) []byte {
		return append(dst, ctx.Meta.Level.String()...)
	},
	"lineno": func(dst []byte, ctx *EventContext) []byte {
		return strconv.AppendInt(dst, int64(ctx.Meta.Line), 10)
	},
	"logger_name": func(dst []byte, ctx *EventContext) []byte {
		return append(dst, ctx.LoggerName...)
	},
	"thread": func(dst []byte, ctx *EventContext) []byte {
		return append(dst, ctx.ThreadID...)
	},
}

const messageToken = "%(message)"

// plan is one compiled pattern segment: the attribute resolvers in
// source order plus a template string in which every token became a {}
// marker. Literal braces from the pattern are escaped as {{ and }} so
// the marker positions stay unambiguous.
type plan struct {
	template  string
	resolvers []Resolver
}

// compilePattern splits the layout pattern at its single %(message)
// placeholder and compiles each side into a plan. An empty side
// compiles to a nil plan and is skipped at render time.
func compilePattern(pattern string) (prefix, suffix *plan, err error) {
	idx := strings.Index(pattern, messageToken)
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrMissingMessage, pattern)
	}
	rest := pattern[idx+len(messageToken):]
	if strings.Contains(rest, messageToken) {
		return nil, nil, fmt.Errorf("%w: %q has more than one", ErrMissingMessage, pattern)
	}

	if prefix, err = compileSegment(pattern[:idx]); err != nil {
		return nil, nil, err
	}
	if suffix, err = compileSegment(rest); err != nil {
		return nil, nil, err
	}
	return prefix, suffix, nil
}

func compileSegment(segment string) (*plan, error) {
	if segment == "" {
		return nil, nil
	}

	var tpl []byte
	var resolvers []Resolver
	for i := 0; i < len(segment); {
		c := segment[i]
		if c == '%' && i+1 < len(segment) && segment[i+1] == '(' {
			end := strings.IndexByte(segment[i+2:], ')')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated token %q", ErrUnknownAttribute, segment[i:])
			}
			name := segment[i+2 : i+2+end]
			r, ok := attributeResolvers[name]
			if !ok {
				return nil, fmt.Errorf("%w: %%(%s)", ErrUnknownAttribute, name)
			}
			resolvers = append(resolvers, r)
			tpl = append(tpl, '{', '}')
			i += 2 + end + 1
			continue
		}
		switch c {
		case '{':
			tpl = append(tpl, '{', '{')
		case '}':
			tpl = append(tpl, '}', '}')
		default:
			tpl = append(tpl, c)
		}
		i++
	}
	return &plan{template: string(tpl), resolvers: resolvers}, nil
}

// render expands the segment template, invoking resolvers at each {}
// marker in compiled order. Marker count equals resolver count by
// construction, so render cannot fail.
func (p *plan) render(dst []byte, ctx *EventContext) []byte {
	next := 0
	t := p.template
	for i := 0; i < len(t); {
		c := t[i]
		if c == '{' && i+1 < len(t) {
			if t[i+1] == '}' {
				dst = p.resolvers[next](dst, ctx)
				next++
				i += 2
				continue
			}
			if t[i+1] == '{' {
				dst = append(dst, '{')
				i += 2
				continue
			}
		}
		if c == '}' && i+1 < len(t) && t[i+1] == '}' {
			dst = append(dst, '}')
			i += 2
			continue
		}
		dst = append(dst, c)
		i++
	}
	return dst
}
