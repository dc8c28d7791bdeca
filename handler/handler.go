package handler

import (
	"github.com/wicklog/wick/core"
)

// errorReporter implements core.ErrorSink with repeat suppression: a
// sink that fails every write would otherwise spam the fallback
// channel with the identical error once per record.
type errorReporter struct {
	lastMsg string
}

// ReportError forwards the error to the process-wide fallback output
// unless it repeats the previous one verbatim.
func (r *errorReporter) ReportError(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if msg == r.lastMsg {
		return
	}
	r.lastMsg = msg
	core.FallbackErrorOutput(err)
}
