package handler

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wicklog/wick/core"
	"github.com/wicklog/wick/formatter"
)

// ColorMode controls whether console output is colorized
type ColorMode uint8

const (
	// ColorAuto colorizes only when the writer is a terminal (default)
	ColorAuto ColorMode = iota
	// ColorAlways colorizes unconditionally
	ColorAlways
	// ColorNever disables colorization
	ColorNever
)

// ConsoleConfig holds configuration for the console sink
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter configures the sink-owned pattern formatter
	Formatter formatter.Config
	// Color controls colorization (default: ColorAuto)
	Color ColorMode
	// Styles overrides the per-level line styles (default: DefaultStyles)
	Styles map[core.Level]lipgloss.Style
}

// DefaultStyles returns the standard per-level line styles.
func DefaultStyles() map[core.Level]lipgloss.Style {
	return map[core.Level]lipgloss.Style{
		core.DebugLevel:    lipgloss.NewStyle().Faint(true),
		core.InfoLevel:     lipgloss.NewStyle(),
		core.WarnLevel:     lipgloss.NewStyle().Foreground(lipgloss.Color("192")),
		core.ErrorLevel:    lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		core.CriticalLevel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204")),
	}
}

// styleSeq is a style pre-split into its opening and closing escape
// sequences so colorizing a line is two appends instead of a
// lipgloss.Render call per record.
type styleSeq struct {
	open  string
	close string
}

func splitStyle(st lipgloss.Style) styleSeq {
	const marker = "\x00"
	rendered := st.Render(marker)
	i := strings.Index(rendered, marker)
	if i < 0 {
		return styleSeq{}
	}
	return styleSeq{open: rendered[:i], close: rendered[i+len(marker):]}
}

// ConsoleHandler writes rendered records to a terminal or arbitrary
// writer, colorizing whole lines by severity. It owns its own
// PatternFormatter; it is written to only by the backend worker
// goroutine, so no locking is needed.
type ConsoleHandler struct {
	errorReporter
	w      io.Writer
	f      *formatter.PatternFormatter
	color  bool
	seqs   map[core.Level]styleSeq
	buf    []byte
	closed bool
}

// NewConsoleHandler creates a console sink. It fails if the formatter
// configuration does not compile.
func NewConsoleHandler(cfg ConsoleConfig) (*ConsoleHandler, error) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Styles == nil {
		cfg.Styles = DefaultStyles()
	}

	f, err := formatter.New(cfg.Formatter)
	if err != nil {
		return nil, err
	}

	h := &ConsoleHandler{w: cfg.Writer, f: f}
	switch cfg.Color {
	case ColorAlways:
		h.color = true
	case ColorNever:
		h.color = false
	default:
		h.color = isTerminal(cfg.Writer)
	}
	if h.color {
		h.seqs = make(map[core.Level]styleSeq, len(cfg.Styles))
		for lvl, st := range cfg.Styles {
			h.seqs[lvl] = splitStyle(st)
		}
	}
	return h, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Formatter returns the sink-owned pattern formatter.
func (h *ConsoleHandler) Formatter() core.Renderer { return h.f }

// Write emits one rendered record without colorization.
func (h *ConsoleHandler) Write(p []byte, _ time.Time) error {
	_, err := h.w.Write(p)
	return err
}

// WriteLevel emits one rendered record, wrapping the line in the
// severity's escape sequences when color is enabled. The trailing
// newline stays outside the escape so partial reads never leave the
// terminal styled.
func (h *ConsoleHandler) WriteLevel(p []byte, ts time.Time, level core.Level) error {
	if !h.color {
		return h.Write(p, ts)
	}
	seq, ok := h.seqs[level]
	if !ok || seq.open == "" {
		return h.Write(p, ts)
	}

	line := p
	hasNL := len(line) > 0 && line[len(line)-1] == '\n'
	if hasNL {
		line = line[:len(line)-1]
	}

	h.buf = h.buf[:0]
	h.buf = append(h.buf, seq.open...)
	h.buf = append(h.buf, line...)
	h.buf = append(h.buf, seq.close...)
	if hasNL {
		h.buf = append(h.buf, '\n')
	}
	_, err := h.w.Write(h.buf)
	return err
}

// Close marks the sink closed. The writer is not owned and stays open.
func (h *ConsoleHandler) Close() error {
	h.closed = true
	return nil
}

var (
	_ core.Sink        = (*ConsoleHandler)(nil)
	_ core.LevelWriter = (*ConsoleHandler)(nil)
	_ core.ErrorSink   = (*ConsoleHandler)(nil)
)
