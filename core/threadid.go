package core

import "runtime"

// ThreadID returns the decimal id of the calling goroutine, rendered
// by the %(thread) pattern attribute. The id is parsed out of the
// runtime stack header ("goroutine 123 [running]:"), which is the only
// stable way to observe it.
func ThreadID() string {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	s := buf[:n]

	const prefix = "goroutine "
	if len(s) <= len(prefix) {
		return "0"
	}
	s = s[len(prefix):]
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return string(s[:i])
		}
	}
	return "0"
}
