package core

import (
	"path/filepath"
	"runtime"
	"sync"
)

// Metadata is the static, immutable description of one logging call
// site: where the call lives in the source, its severity, and the
// message template its arguments are rendered through. It is created
// once per call site and shared by every record that site produces.
type Metadata struct {
	File          string
	ShortFile     string
	Line          int
	Function      string
	Level         Level
	MessageFormat string
}

// siteKey identifies a call site. The program counter alone is enough
// to distinguish call sites, but records produced through a generic
// Log(level, ...) helper share a pc across levels, so the level is
// part of the key.
type siteKey struct {
	pc    uintptr
	level Level
}

// siteRegistry interns Metadata per call site so the hot path pays the
// runtime.FuncForPC lookup only on the first call from each site.
var siteRegistry sync.Map // siteKey -> *Metadata

// SiteMetadata returns the interned Metadata for the calling site.
// skip counts stack frames exactly like runtime.Caller: 0 is the
// caller of SiteMetadata itself.
func SiteMetadata(skip int, level Level, messageFormat string) *Metadata {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return &Metadata{Level: level, MessageFormat: messageFormat}
	}

	key := siteKey{pc: pc, level: level}
	if v, ok := siteRegistry.Load(key); ok {
		m := v.(*Metadata)
		// A site normally passes a constant template. If the template
		// is built dynamically the interned entry cannot be shared.
		if m.MessageFormat == messageFormat {
			return m
		}
		return &Metadata{
			File:          m.File,
			ShortFile:     m.ShortFile,
			Line:          m.Line,
			Function:      m.Function,
			Level:         level,
			MessageFormat: messageFormat,
		}
	}

	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}

	m := &Metadata{
		File:          file,
		ShortFile:     filepath.Base(file),
		Line:          line,
		Function:      funcName,
		Level:         level,
		MessageFormat: messageFormat,
	}
	actual, _ := siteRegistry.LoadOrStore(key, m)
	return actual.(*Metadata)
}
