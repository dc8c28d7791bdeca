// Package handler provides the built-in sinks: destinations that own a
// pattern formatter and a write operation.
//
// Every sink owns its own formatter instance because different sinks
// may use different layout patterns; a record is rendered once per
// sink, never formatted once and fanned out. Sinks are driven
// exclusively by the backend worker goroutine, which is why none of
// them lock around their buffers.
//
// ConsoleHandler colorizes whole lines by severity using lipgloss
// styles, auto-detecting terminal support. FileHandler appends through
// a buffered writer. Both suppress repeated identical write errors so
// a persistently failing destination cannot flood the error channel.
package handler
