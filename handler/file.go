package handler

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/wicklog/wick/core"
	"github.com/wicklog/wick/formatter"
)

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Path is the log file path (required)
	Path string
	// Formatter configures the sink-owned pattern formatter
	Formatter formatter.Config
	// BufferSize is the write buffer size in bytes (default: 64KB)
	BufferSize int
	// Truncate opens the file truncated instead of appending
	Truncate bool
}

// FileHandler appends rendered records to a file through a buffered
// writer. Like every sink it is driven only by the backend worker
// goroutine; Flush and Close must be called from that same context or
// after the backend has drained.
type FileHandler struct {
	errorReporter
	f    *formatter.PatternFormatter
	file *os.File
	bw   *bufio.Writer
}

// NewFileHandler opens (or creates) the log file and returns the sink.
func NewFileHandler(cfg FileConfig) (*FileHandler, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink: path is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64 * 1024
	}

	f, err := formatter.New(cfg.Formatter)
	if err != nil {
		return nil, err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if cfg.Truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	file, err := os.OpenFile(cfg.Path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file sink: open %s: %w", cfg.Path, err)
	}

	return &FileHandler{
		f:    f,
		file: file,
		bw:   bufio.NewWriterSize(file, cfg.BufferSize),
	}, nil
}

// Formatter returns the sink-owned pattern formatter.
func (h *FileHandler) Formatter() core.Renderer { return h.f }

// Write appends one rendered record. The event timestamp is accepted
// for interface symmetry; time-based naming policies live outside this
// sink.
func (h *FileHandler) Write(p []byte, _ time.Time) error {
	_, err := h.bw.Write(p)
	return err
}

// Flush forces buffered records to the file.
func (h *FileHandler) Flush() error {
	return h.bw.Flush()
}

// Close flushes and closes the underlying file.
func (h *FileHandler) Close() error {
	ferr := h.bw.Flush()
	cerr := h.file.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}

var (
	_ core.Sink      = (*FileHandler)(nil)
	_ core.ErrorSink = (*FileHandler)(nil)
)
